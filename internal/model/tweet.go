package model

// Label marks which dataset a tweet came from
type Label int

const (
	LabelRandom     Label = 0 // randomly sampled, treated as non-depressive
	LabelDepressive Label = 1
)

func (l Label) String() string {
	switch l {
	case LabelDepressive:
		return "depressive"
	case LabelRandom:
		return "random"
	default:
		return "unknown"
	}
}

// Tweet is one row of the working table
type Tweet struct {
	ID        string `json:"id,omitempty"` // source tweet id, empty when the source has none
	Text      string `json:"text"`
	Label     Label  `json:"label"`
	CleanText string `json:"clean_text,omitempty"`
}

// Texts returns the raw text column
func Texts(tweets []Tweet) []string {
	out := make([]string, len(tweets))
	for i, t := range tweets {
		out[i] = t.Text
	}
	return out
}

// CleanTexts returns the derived clean_text column
func CleanTexts(tweets []Tweet) []string {
	out := make([]string, len(tweets))
	for i, t := range tweets {
		out[i] = t.CleanText
	}
	return out
}
