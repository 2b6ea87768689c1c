package clean

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrRejected is returned for tweets the cleaner refuses to keep
var ErrRejected = errors.New("tweet rejected")

var (
	// leading link: the tweet is most likely a shared news article
	leadingURLPattern = regexp.MustCompile(`^\w+://\S+`)

	// @mentions, #hashtags, <Emoji: ...> markers and embedded picture links
	markupPattern = regexp.MustCompile(`(?i)(@[a-z0-9]+)|(#[a-z0-9]+)|(<emoji:.*>)|(pic\.twitter\.com/.*)`)

	nonAlnumPattern = regexp.MustCompile(`[^0-9A-Za-z \t]`)
)

// Options configures a Cleaner
type Options struct {
	MinLength  int         // texts with this many characters or fewer are rejected
	StopWords  *StopWords  // nil uses the English list
	Lemmatizer *Lemmatizer // nil disables lemmatisation
}

// Cleaner normalises raw tweet text into lowercase, lemmatised tokens.
// It holds no per-call state and is safe for concurrent use.
type Cleaner struct {
	minLength  int
	stopWords  *StopWords
	lemmatizer *Lemmatizer
}

// New creates a Cleaner
func New(opts Options) *Cleaner {
	if opts.StopWords == nil {
		opts.StopWords = NewStopWords()
	}
	return &Cleaner{
		minLength:  opts.MinLength,
		stopWords:  opts.StopWords,
		lemmatizer: opts.Lemmatizer,
	}
}

// Clean returns the cleaned text and whether the tweet was kept.
// A kept tweet may still clean down to an empty string.
func (c *Cleaner) Clean(text string) (string, bool) {
	tokens, err := c.Tokens(text)
	if err != nil {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

// Tokens runs the full cleaning sequence and returns the surviving tokens
func (c *Cleaner) Tokens(text string) ([]string, error) {
	text = strings.ToLower(Fix(text))

	if leadingURLPattern.MatchString(text) {
		return nil, fmt.Errorf("%w: starts with a link", ErrRejected)
	}
	if utf8.RuneCountInString(text) <= c.minLength {
		return nil, fmt.Errorf("%w: %d characters or fewer", ErrRejected, c.minLength)
	}

	text = collapse(markupPattern.ReplaceAllString(text, " "))
	text = ExpandContractions(text)
	text = collapse(nonAlnumPattern.ReplaceAllString(text, " "))

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if c.stopWords.Contains(w) {
			continue
		}
		if c.lemmatizer != nil {
			w = c.lemmatizer.Lemmatize(w)
		}
		tokens = append(tokens, w)
	}
	return tokens, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
