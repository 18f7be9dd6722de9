package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// docxParagraphs returns the text of every paragraph that is a direct child
// of the document body. Tables, headers and footers are not traversed, and
// textbox content anchored inside a paragraph is left out of that paragraph.
func docxParagraphs(data []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", ErrDecode, err)
	}
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		defer rc.Close()
		return parseBody(rc)
	}
	return nil, fmt.Errorf("%w: %s missing", ErrDecode, documentPart)
}

func parseBody(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		stack     []string
		segments  []string
		para      strings.Builder
		paraDepth = -1
		skipDepth = -1
		inText    bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if paraDepth < 0 && name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body" {
				paraDepth = len(stack)
				para.Reset()
			}
			if paraDepth >= 0 && skipDepth < 0 && skipped(name) {
				skipDepth = len(stack)
			}
			if paraDepth >= 0 && skipDepth < 0 {
				switch name {
				case "t":
					inText = true
				case "tab":
					para.WriteString("\t")
				case "br", "cr":
					para.WriteString("\n")
				}
			}
			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if t.Name.Local == "t" {
				inText = false
			}
			if skipDepth >= 0 && len(stack) == skipDepth {
				skipDepth = -1
			}
			if paraDepth >= 0 && len(stack) == paraDepth {
				segments = append(segments, para.String())
				paraDepth = -1
			}
		case xml.CharData:
			if inText && paraDepth >= 0 {
				para.Write(t)
			}
		}
	}
	return segments, nil
}

// skipped reports elements whose text belongs to a floating shape rather than
// the host paragraph. Word writes each textbox twice, once under mc:Choice and
// once under mc:Fallback.
func skipped(local string) bool {
	switch local {
	case "txbxContent", "AlternateContent", "pict", "drawing", "object":
		return true
	}
	return false
}
