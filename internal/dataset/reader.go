package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ppiankov/tweetprep/internal/model"
)

// ErrMissingColumn is returned when a required header is absent
var ErrMissingColumn = errors.New("missing column")

// Column names used by the two source datasets
const (
	ColumnTweetID       = "tweet.id"
	ColumnText          = "text"
	ColumnItemID        = "ItemID"
	ColumnSentiment     = "Sentiment"
	ColumnSentimentText = "SentimentText"
)

// Table is a loaded dataset: the raw columns kept for profiling plus the
// tweets built from them
type Table struct {
	Name    string
	Header  []string
	Records [][]string
	Tweets  []model.Tweet
	Rows    int // data rows read, malformed ones included
	Skipped int // malformed or short rows
}

// RandomOptions controls how the random tweets CSV is read
type RandomOptions struct {
	Encoding        string // iso-8859-1 (default), windows-1252, utf-8
	Columns         int    // leading columns to keep; 0 keeps all
	MaxRows         int    // data rows to read; 0 reads everything
	SentimentFilter string // keep rows whose Sentiment equals this; "" keeps all
}

// DefaultRandomOptions matches the layout of the Sentiment Analysis Dataset
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		Encoding:        "iso-8859-1",
		Columns:         4,
		MaxRows:         40000,
		SentimentFilter: "1",
	}
}

// ReadDepressive parses the depressive tweets CSV. The pandas index column
// is dropped, tweet.id becomes the id and every row is labelled depressive.
func ReadDepressive(r io.Reader) (*Table, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimBOM(header)

	keep := make([]int, 0, len(header))
	for i, name := range header {
		if isIndexColumn(name) {
			continue
		}
		keep = append(keep, i)
	}

	textCol := indexOf(header, ColumnText)
	if textCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnText)
	}
	idCol := indexOf(header, ColumnTweetID)
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnTweetID)
	}

	table := &Table{Name: "depressive", Header: pick(header, keep)}
	err = eachRecord(cr, 0, table, func(rec []string) bool {
		if len(rec) <= textCol || len(rec) <= idCol {
			return false
		}
		tweet := model.Tweet{
			ID:    strings.TrimSpace(rec[idCol]),
			Text:  rec[textCol],
			Label: model.LabelDepressive,
		}
		table.Tweets = append(table.Tweets, tweet)
		table.Records = append(table.Records, pad(pick(rec, keep), len(keep)))
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ReadRandom parses the random tweets CSV. Rows are decoded from opts.Encoding,
// truncated to the first opts.Columns columns and filtered on Sentiment.
// SentimentText becomes the text and every kept row is labelled random.
func ReadRandom(r io.Reader, opts RandomOptions) (*Table, error) {
	enc, err := Encoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimBOM(header)
	if opts.Columns > 0 && len(header) > opts.Columns {
		header = header[:opts.Columns]
	}

	textCol := indexOf(header, ColumnSentimentText)
	if textCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnSentimentText)
	}
	sentCol := indexOf(header, ColumnSentiment)
	if sentCol < 0 && opts.SentimentFilter != "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnSentiment)
	}

	table := &Table{Name: "random", Header: header}
	err = eachRecord(cr, opts.MaxRows, table, func(rec []string) bool {
		if len(rec) <= textCol || (sentCol >= 0 && len(rec) <= sentCol) {
			return false
		}
		if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		if opts.SentimentFilter != "" && strings.TrimSpace(rec[sentCol]) != opts.SentimentFilter {
			return true
		}
		table.Tweets = append(table.Tweets, model.Tweet{Text: rec[textCol], Label: model.LabelRandom})
		table.Records = append(table.Records, pad(rec, len(header)))
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Encoding maps a configured encoding name to a decoder. A nil encoding means
// the input is already UTF-8.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// eachRecord feeds data rows to fn until EOF or maxRows. Parse errors and
// rows fn refuses are counted as skipped.
func eachRecord(cr *csv.Reader, maxRows int, table *Table, fn func([]string) bool) error {
	for maxRows <= 0 || table.Rows < maxRows {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		table.Rows++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			table.Skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("read row %d: %w", table.Rows, err)
		}
		if !fn(rec) {
			table.Skipped++
		}
	}
	return nil
}

// trimBOM strips a byte order mark from the first header, whether it
// arrived intact or decoded as Latin-1 ("ï»¿")
func trimBOM(header []string) []string {
	if len(header) == 0 {
		return header
	}
	first := strings.TrimPrefix(header[0], "\ufeff")
	first = strings.TrimPrefix(first, "ï»¿")
	header[0] = first
	return header
}

func isIndexColumn(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.HasPrefix(name, "Unnamed:")
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func pick(rec []string, cols []int) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c < len(rec) {
			out = append(out, rec[c])
		}
	}
	return out
}

func pad(rec []string, n int) []string {
	for len(rec) < n {
		rec = append(rec, "")
	}
	return rec
}
