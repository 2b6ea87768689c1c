package explore

import (
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"
)

// Token is a word with its Penn Treebank part-of-speech tag
type Token struct {
	Text string
	Tag  string
}

// Tagger assigns part-of-speech tags to the words of a text
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// ProseTagger tags with the averaged perceptron model bundled with prose
type ProseTagger struct {
	mu    sync.Mutex
	model *prose.Model
}

// NewProseTagger loads the tagging model once for reuse across documents
func NewProseTagger() (*ProseTagger, error) {
	doc, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("load tagger model: %w", err)
	}
	return &ProseTagger{model: doc.Model}, nil
}

// Tag tokenises and tags text
func (t *ProseTagger) Tag(text string) ([]Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}

	toks := doc.Tokens()
	out := make([]Token, len(toks))
	for i, tok := range toks {
		out[i] = Token{Text: tok.Text, Tag: tok.Tag}
	}
	return out, nil
}
