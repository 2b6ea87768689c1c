package dataset

import (
	"bytes"
	"testing"

	"github.com/ppiankov/tweetprep/internal/model"
)

func TestWriteTSV(t *testing.T) {
	tweets := []model.Tweet{
		{Text: "feeling low", Label: model.LabelDepressive, CleanText: "feeling low"},
		{Text: "tab\there", Label: model.LabelRandom, CleanText: "tab"},
	}

	var buf bytes.Buffer
	n, err := WriteTSV(&buf, tweets, '\t')
	if err != nil {
		t.Fatalf("WriteTSV failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows written, got %d", n)
	}

	want := "text\tlabel\tclean_text\n" +
		"feeling low\t1\tfeeling low\n" +
		"\"tab\there\"\t0\ttab\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"\t", '\t', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"", '\t', false},
		{",", ',', false},
		{"comma", ',', false},
		{";", ';', false},
		{"ab", 0, true},
		{`"`, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelimiter(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
