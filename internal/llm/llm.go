// Package llm defines the contracts of the text-generation and embedding
// collaborators and the fixed extraction prompt sent to the generator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces a free-text answer for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Embedder returns one vector per input string, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmptyResponse is returned when a collaborator answers without content.
var ErrEmptyResponse = errors.New("collaborator returned empty response")

const extractionPrompt = `
    Extract ONLY the total years of experience and list of skills from the following document.

    ---------------------
    %s
    ---------------------
    Provide the answer in the format:
    Years of Experience: <number>

    Skills: <comma-separated list>
    `

// ExtractionPrompt interpolates the newline-joined segments into the fixed template.
func ExtractionPrompt(segments []string) string {
	return fmt.Sprintf(extractionPrompt, strings.Join(segments, "\n"))
}

// Synthesize asks g for the years-of-experience / skills answer of a document.
func Synthesize(ctx context.Context, g Generator, segments []string) (string, error) {
	answer, err := g.GenerateContent(ctx, ExtractionPrompt(segments))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

// EmbedOne embeds a single text and checks the one-vector contract.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("%w: expected 1 embedding, got %d", ErrEmptyResponse, len(vecs))
	}
	return vecs[0], nil
}
