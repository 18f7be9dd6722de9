// Package similarity scores how closely a résumé matches a job description.
//
// Both texts form the entire TF-IDF corpus, so every term has a document
// frequency of 1 or 2. Weights use smoothed IDF, ln((1+n)/(1+df)) + 1, over
// raw term counts, and each vector is L2-normalised before the cosine.
package similarity

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrDegenerateInput is returned when either text is empty or contributes no
// vocabulary terms after stop-word removal.
var ErrDegenerateInput = errors.New("empty or degenerate input")

// tokens are runs of two or more letters, digits or underscores
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Vectors builds the two TF-IDF vectors over a shared, sorted vocabulary.
func Vectors(a, b string) (vocab []string, va, vb []float64) {
	ta, tb := counts(tokenize(a)), counts(tokenize(b))

	for term := range ta {
		vocab = append(vocab, term)
	}
	for term := range tb {
		if _, ok := ta[term]; !ok {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	va = make([]float64, len(vocab))
	vb = make([]float64, len(vocab))
	const n = 2.0
	for i, term := range vocab {
		df := 0.0
		if ta[term] > 0 {
			df++
		}
		if tb[term] > 0 {
			df++
		}
		idf := math.Log((1+n)/(1+df)) + 1
		va[i] = float64(ta[term]) * idf
		vb[i] = float64(tb[term]) * idf
	}
	normalize(va)
	normalize(vb)
	return vocab, va, vb
}

func counts(tokens []string) map[string]int {
	m := make(map[string]int, len(tokens))
	for _, t := range tokens {
		m[t]++
	}
	return m
}

func normalize(v []float64) {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity of two equal-length vectors.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Score returns the match percentage in [0, 100] between resume and job.
// It is deterministic and symmetric in its arguments.
func Score(resume, job string) (float64, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(job) == "" {
		return 0, ErrDegenerateInput
	}
	_, va, vb := Vectors(resume, job)
	if isZero(va) || isZero(vb) {
		return 0, ErrDegenerateInput
	}
	sim := Cosine(va, vb)
	return math.Max(0, math.Min(1, sim)) * 100, nil
}
