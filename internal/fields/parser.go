// Package fields pulls structured values out of a synthesized free-text answer.
package fields

import "strings"

const (
	// NotAvailable marks a field whose anchor was absent from the answer.
	NotAvailable = "N/A"

	ExperienceAnchor = "Years of Experience:"
	SkillsAnchor     = "Skills:"
)

// Status reports how many anchors were found.
type Status string

const (
	StatusExtracted    Status = "extracted"
	StatusPartial      Status = "partial"
	StatusNotExtracted Status = "not_extracted"
)

// Fields holds the parsed values. A value equals NotAvailable when its anchor is missing.
type Fields struct {
	YearsOfExperience string
	Skills            string
	Status            Status
}

// Parse performs a literal anchor search; it never fails.
//
// The experience value runs from the first "Years of Experience:" to the next
// newline; the skills value runs from the first "Skills:" to the end of the
// text. Both are trimmed.
func Parse(answer string) Fields {
	f := Fields{YearsOfExperience: NotAvailable, Skills: NotAvailable}
	found := 0

	if _, rest, ok := strings.Cut(answer, ExperienceAnchor); ok {
		line, _, _ := strings.Cut(rest, "\n")
		f.YearsOfExperience = strings.TrimSpace(line)
		found++
	}
	if _, rest, ok := strings.Cut(answer, SkillsAnchor); ok {
		f.Skills = strings.TrimSpace(rest)
		found++
	}

	switch found {
	case 2:
		f.Status = StatusExtracted
	case 1:
		f.Status = StatusPartial
	default:
		f.Status = StatusNotExtracted
	}
	return f
}
