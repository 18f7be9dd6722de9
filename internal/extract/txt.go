package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// lineBreaks maps every recognised line boundary to \n. \r\n comes first so
// it counts as a single break.
var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\f", "\n",
	"\x1c", "\n",
	"\x1d", "\n",
	"\x1e", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// textLines decodes data as UTF-8 and splits it into lines.
// A trailing line terminator does not produce an extra empty segment.
func textLines(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid utf-8 byte sequence", ErrDecode)
	}
	s := strings.TrimPrefix(string(data), "\ufeff")
	s = lineBreaks.Replace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n"), nil
}
