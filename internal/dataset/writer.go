package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/ppiankov/tweetprep/internal/model"
)

// OutputHeader is the column order of the processed dataset
var OutputHeader = []string{"text", "label", "clean_text"}

// WriteTSV writes tweets as text, label, clean_text with a header row and no
// index column. Fields containing the delimiter, quotes or newlines are quoted.
func WriteTSV(w io.Writer, tweets []model.Tweet, delimiter rune) (int, error) {
	if delimiter == 0 {
		delimiter = '\t'
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(OutputHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	n := 0
	for _, t := range tweets {
		if err := cw.Write([]string{t.Text, strconv.Itoa(int(t.Label)), t.CleanText}); err != nil {
			return n, fmt.Errorf("write row %d: %w", n+1, err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

// ParseDelimiter turns a configured delimiter ("\t", "tab", ",") into a rune
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
