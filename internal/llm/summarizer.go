package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tweetprep/internal/model"
	"github.com/ppiankov/tweetprep/internal/worker"
)

// Summarizer adds an optional model-written summary to a report.
// It never changes any number in the report.
type Summarizer struct {
	provider Provider // nil when disabled
	config   Config
	limiter  *worker.Limiter
	logger   *zap.Logger
}

// NewSummarizer creates a summarizer; an empty provider disables it
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return newSummarizer(provider, config), nil
}

func newSummarizer(provider Provider, config Config) *Summarizer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  worker.NewLimiter(config.RequestsPerSecond, config.BurstSize),
		logger:   logger,
	}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary asks the provider for a summary. Provider failures are
// reported as warnings on a disabled summary rather than as errors; only a
// cancelled context is returned as an error.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider: s.provider.Name(),
		Model:    s.config.Model,
		Strict:   s.config.Strict,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available", s.provider.Name()))
		return summary, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.provider.Name()); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	allowed := ReportWords(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		AllowedWords: allowed,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := fmt.Sprintf("LLM summary failed: %v", err)
		if errors.Is(err, ErrUnknownWord) {
			msg = fmt.Sprintf("LLM summary rejected in strict mode: %v", err)
		}
		s.logger.Warn("LLM summary unavailable", zap.String("provider", s.provider.Name()), zap.Error(err))
		summary.Warnings = append(summary.Warnings, msg)
		return summary, nil
	}

	summary.Enabled = true
	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.Strict {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d quoted words against the report vocabulary", len(resp.QuotedWords)))
	}
	return summary, nil
}

// RenderSeparateMarkdown renders the summary as a standalone Markdown file
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Exploration Summary (LLM)\n\n")
	fmt.Fprintf(&b, "**Provider:** %s  \n", summary.Provider)
	fmt.Fprintf(&b, "**Model:** %s  \n", summary.Model)
	if summary.Strict {
		b.WriteString("**Strict Vocabulary Mode:** enabled  \n")
	}
	b.WriteString("\n## Summary\n\n")
	if strings.TrimSpace(summary.SummaryMD) == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString("_This text was written by a language model from the exploration report. ")
	b.WriteString("All counts and statistics were determined independently; the summary does not change them._\n")
	return b.String()
}
