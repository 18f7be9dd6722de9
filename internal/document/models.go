package document

import (
	"errors"
	"fmt"
	"time"
)

// Kind separates résumés from job descriptions; each kind has its own store.
type Kind string

const (
	KindResume         Kind = "resume"
	KindJobDescription Kind = "job_description"
)

var ErrUnknownKind = errors.New("unknown document kind")

// Route returns the URL path segment used for this kind.
func (k Kind) Route() string {
	if k == KindJobDescription {
		return "job-description"
	}
	return string(k)
}

// ParseKind accepts both the stored value and the route form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "resume":
		return KindResume, nil
	case "job_description", "job-description":
		return KindJobDescription, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Record is one ingested document. It is written once and never updated.
// ID is the primary key; FileName is a non-unique secondary key.
type Record struct {
	ID                string    `json:"id" bson:"_id"`
	Kind              Kind      `json:"kind" bson:"kind"`
	FileName          string    `json:"file_name" bson:"file_name"`
	AllContent        string    `json:"all_content" bson:"all_content"`
	YearsOfExperience string    `json:"years_of_experience" bson:"years_of_experience"`
	TechnicalSkills   string    `json:"technical_skills" bson:"technical_skills"`
	Embedding         []float32 `json:"embedding,omitempty" bson:"embedding"`
	ExtractionStatus  string    `json:"extraction_status" bson:"extraction_status"`
	ObjectKey         string    `json:"object_key,omitempty" bson:"object_key,omitempty"`
	UploadedAt        time.Time `json:"uploaded_at" bson:"uploaded_at"`
}
