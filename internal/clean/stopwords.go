package clean

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

//go:embed stopwords_en.txt
var stopwordsEnglish string

// StopWords is a set of lowercase words removed from cleaned text
type StopWords struct {
	words mapset.Set[string]
}

// NewStopWords returns the English stop-word list
func NewStopWords() *StopWords {
	sw := &StopWords{words: mapset.NewSet[string]()}
	for _, line := range strings.Split(stopwordsEnglish, "\n") {
		sw.Add(line)
	}
	return sw
}

// Add adds a word; blank input is ignored
func (sw *StopWords) Add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word != "" {
		sw.words.Add(word)
	}
}

// Contains reports whether token is a stop word
func (sw *StopWords) Contains(token string) bool {
	return sw.words.Contains(token)
}

// Len returns the number of stop words
func (sw *StopWords) Len() int {
	return sw.words.Cardinality()
}

// LoadFile adds one word per line from path; blank lines and # comments are skipped
func (sw *StopWords) LoadFile(path string) (int, error) {
	words, err := ReadLines(path)
	if err != nil {
		return 0, err
	}
	for _, w := range words {
		sw.Add(w)
	}
	return len(words), nil
}

// ReadLines reads non-empty, non-comment lines from a file, deduplicated
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
