package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tweetprep/internal/model"
)

// ErrUnknownWord is returned in strict mode when the model quotes a word
// that does not appear in any word table of the report
var ErrUnknownWord = errors.New("quoted word not in report")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a narrative summary of an exploration report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the exploration report to summarize
	Report model.Report

	// AllowedWords is the vocabulary the model may quote. In strict mode a
	// backtick-quoted word outside this list fails the request.
	AllowedWords []string

	// Prompt overrides the default prompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary     string
	QuotedWords []string // backtick-quoted words found in the summary
	Model       string
	TokensUsed  int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Strict rejects summaries quoting words the report does not contain
	Strict bool

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles calls to the provider; 0 means unlimited
	RequestsPerSecond float64
	BurstSize         int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		Strict:    true,
		MaxTokens: 600,
	}
}

const systemPrompt = "You are a data analyst describing the results of a tweet dataset exploration. You only describe numbers and words that appear in the report."

// maxPromptWords bounds the allowed vocabulary listed in the prompt
const maxPromptWords = 40

// BuildPrompt constructs the default summarization prompt
func BuildPrompt(report model.Report, allowedWords []string) string {
	var b strings.Builder

	b.WriteString(`You are summarizing an exploration of two tweet datasets: tweets collected for depression-related keywords (label 1) and randomly sampled tweets (label 0).

RULES:
1. Quote words in backticks only if they appear in this list:
`)
	b.WriteString(joinWords(allowedWords))
	b.WriteString(`

2. Do not diagnose anyone and do not claim any tweet shows a medical condition.
3. Describe differences between the datasets using only the numbers below.
4. Do not invent numbers.

Report:
`)

	for _, l := range sortedLabels(report.Distribution) {
		fmt.Fprintf(&b, "- Label %d (%s): %d rows merged, %d left after cleaning\n",
			int(l), l, report.Distribution[l], report.Cleaned[l])
	}
	for _, d := range report.Datasets {
		fmt.Fprintf(&b, "- %s: %d rows, %d cleaned, %d rejected, mean length %.1f characters\n",
			d.Name, d.Rows, d.Cleaned, d.Rejected, d.Lengths.Mean)
		if len(d.TopWords) > 0 {
			words := make([]string, 0, len(d.TopWords))
			for _, w := range d.TopWords {
				words = append(words, fmt.Sprintf("%s (%d)", w.Word, w.Count))
			}
			fmt.Fprintf(&b, "  top words: %s\n", strings.Join(words, ", "))
		}
	}

	b.WriteString("\nProvide a 3-4 sentence summary comparing the vocabulary of the two datasets.")
	return b.String()
}

// ReportWords returns every word that appears in the report's word tables
func ReportWords(report model.Report) []string {
	seen := make(map[string]bool)
	var words []string
	for _, d := range report.Datasets {
		for _, list := range [][]model.WordCount{d.TopWords, d.CloudWords} {
			for _, w := range list {
				if !seen[w.Word] {
					seen[w.Word] = true
					words = append(words, w.Word)
				}
			}
		}
	}
	return words
}

var quotedPattern = regexp.MustCompile("`([^`\\s]+)`")

// extractQuoted returns the distinct backtick-quoted words of text, lowercased
func extractQuoted(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range quotedPattern.FindAllStringSubmatch(text, -1) {
		w := strings.ToLower(strings.Trim(m[1], ".,;:!?\"'"))
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// checkQuoted verifies every quoted word is allowed
func checkQuoted(quoted, allowed []string) error {
	set := make(map[string]bool, len(allowed))
	for _, w := range allowed {
		set[w] = true
	}
	for _, w := range quoted {
		if !set[w] {
			return fmt.Errorf("%w: %s", ErrUnknownWord, w)
		}
	}
	return nil
}

// quotedWords pulls the quoted words out of a summary. In strict mode a word
// missing from allowed fails the summary.
func quotedWords(summary string, allowed []string, strict bool) ([]string, error) {
	quoted := extractQuoted(summary)
	if strict {
		if err := checkQuoted(quoted, allowed); err != nil {
			return nil, err
		}
	}
	return quoted, nil
}

// Helper functions

func joinWords(words []string) string {
	if len(words) == 0 {
		return "(No words available)"
	}
	var b strings.Builder
	for i, w := range words {
		if i >= maxPromptWords {
			fmt.Fprintf(&b, "\n... and %d more words", len(words)-maxPromptWords)
			break
		}
		b.WriteString("\n- ")
		b.WriteString(w)
	}
	return b.String()
}

func sortedLabels(dist map[model.Label]int) []model.Label {
	labels := make([]model.Label, 0, len(dist))
	for l := range dist {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func resolveMaxTokens(req, cfg int) int {
	if req > 0 {
		return req
	}
	if cfg > 0 {
		return cfg
	}
	return 600
}
