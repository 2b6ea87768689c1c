package clean

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Dictionary knows English word forms and their base forms
type Dictionary interface {
	InDict(word string) bool
	// Lemmas returns every base form of word, or word itself when unknown
	Lemmas(word string) []string
}

// Lemmatizer reduces tokens to their noun base form
type Lemmatizer struct {
	dict Dictionary
}

type suffixRule struct {
	suffix      string
	replacement string
}

// nounRules are the WordNet morphy detachment rules for nouns
var nounRules = []suffixRule{
	{"s", ""},
	{"ses", "s"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
	{"ves", "f"},
}

// nounExceptions are irregular plurals the rules cannot reach
var nounExceptions = map[string]string{
	"children": "child",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
	"oxen":     "ox",
	"data":     "datum",
	"wolves":   "wolf",
	"leaves":   "leaf",
	"knives":   "knife",
	"wives":    "wife",
	"lives":    "life",
	"halves":   "half",
	"selves":   "self",
	"shelves":  "shelf",
	"thieves":  "thief",
	"loaves":   "loaf",
	"calves":   "calf",
	"women":    "woman",
	"men":      "man",
}

// NewLemmatizer builds a lemmatizer backed by the given dictionary
func NewLemmatizer(dict Dictionary) *Lemmatizer {
	return &Lemmatizer{dict: dict}
}

// NewEnglishLemmatizer builds a lemmatizer backed by the golem English dictionary
func NewEnglishLemmatizer() (*Lemmatizer, error) {
	g, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english dictionary: %w", err)
	}
	return NewLemmatizer(g), nil
}

// Lemmatize returns the shortest dictionary form among the word itself and
// the results of the noun rules. A rule result must also be one of the
// dictionary's base forms for word, so "news" does not become the adjective
// "new". Unknown words come back unchanged.
func (l *Lemmatizer) Lemmatize(word string) string {
	if base, ok := nounExceptions[word]; ok {
		return base
	}

	best := ""
	if l.dict.InDict(word) {
		best = word
	}
	for _, rule := range nounRules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		candidate := strings.TrimSuffix(word, rule.suffix) + rule.replacement
		if candidate == "" || !l.dict.InDict(candidate) || !l.isBaseOf(candidate, word) {
			continue
		}
		if best == "" || len(candidate) < len(best) {
			best = candidate
		}
	}

	if best == "" {
		return word
	}
	return best
}

func (l *Lemmatizer) isBaseOf(candidate, word string) bool {
	for _, lemma := range l.dict.Lemmas(word) {
		if lemma == candidate {
			return true
		}
	}
	return false
}
