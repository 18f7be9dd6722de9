// Package extract converts raw uploaded files into ordered text segments.
//
// A segment is one page (pdf), one body paragraph (docx) or one line (txt),
// in document order. Joining segments with "\n" yields the document text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than pdf, docx and txt.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrDecode is returned when the bytes cannot be read as the declared format.
	ErrDecode = errors.New("could not decode document")
)

// Format is a recognised file extension.
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
	TXT  Format = "txt"
)

// ParseFormat normalises a declared extension ("PDF", ".docx", "txt").
func ParseFormat(ext string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
	switch f {
	case PDF, DOCX, TXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// FormatFromFilename returns the format declared by the filename's last extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// Extract returns the text segments of data interpreted as ext.
// An empty buffer yields an empty, nil-error result for any supported format.
func Extract(data []byte, ext string) ([]string, error) {
	f, err := ParseFormat(ext)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	switch f {
	case PDF:
		return pdfPages(data)
	case DOCX:
		return docxParagraphs(data)
	default:
		return textLines(data)
	}
}

// Join concatenates segments the way records store them.
func Join(segments []string) string {
	return strings.Join(segments, "\n")
}
