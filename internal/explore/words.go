package explore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/ppiankov/tweetprep/internal/model"
)

// TagAdjective is the Penn Treebank tag for a plain adjective
const TagAdjective = "JJ"

// Adjectives returns the words of text tagged as plain adjectives, in order
func Adjectives(tagger Tagger, text string) ([]string, error) {
	tokens, err := tagger.Tag(text)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, tok := range tokens {
		if tok.Tag == TagAdjective {
			out = append(out, tok.Text)
		}
	}
	return out, nil
}

// Frequencies counts whitespace-separated words across docs, most frequent
// first and alphabetical among equal counts
func Frequencies(docs []string) ([]model.WordCount, error) {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, w := range strings.Fields(doc) {
			counts[w]++
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	rows := make([]model.WordCount, 0, len(counts))
	for w, c := range counts {
		rows = append(rows, model.WordCount{Word: w, Count: c})
	}
	// map order is random; give the frame a deterministic start
	sort.Slice(rows, func(i, j int) bool { return rows[i].Word < rows[j].Word })

	df := dataframe.LoadStructs(rows)
	df = df.Arrange(dataframe.RevSort("Count"), dataframe.Sort("Word"))
	if df.Err != nil {
		return nil, fmt.Errorf("sort frequencies: %w", df.Err)
	}

	words := df.Col("Word").Records()
	freq, err := df.Col("Count").Int()
	if err != nil {
		return nil, fmt.Errorf("read counts: %w", err)
	}

	out := make([]model.WordCount, len(words))
	for i := range words {
		out[i] = model.WordCount{Word: words[i], Count: freq[i]}
	}
	return out, nil
}

// TopN returns at most n leading entries; n <= 0 returns all
func TopN(counts []model.WordCount, n int) []model.WordCount {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// LabelDistribution counts rows per label
func LabelDistribution(tweets []model.Tweet) map[model.Label]int {
	dist := make(map[model.Label]int)
	for _, t := range tweets {
		dist[t.Label]++
	}
	return dist
}
