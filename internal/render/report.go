package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/tweetprep/internal/explore"
	"github.com/ppiankov/tweetprep/internal/model"
)

// Renderer writes exploration reports
type Renderer struct {
	topN int
}

// NewRenderer creates a Renderer; topN bounds the word tables in Markdown
func NewRenderer(topN int) *Renderer {
	return &Renderer{topN: topN}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered model summary
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return writeFile(path, []byte(markdown))
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# Tweet dataset exploration\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if report.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", report.RunID)
	}
	b.WriteString("\n")

	if len(report.Distribution) > 0 {
		b.WriteString("## Label distribution\n\n")
		b.WriteString("| label | name | rows | after cleaning |\n|---:|---|---:|---:|\n")
		for _, l := range sortedLabels(report.Distribution) {
			fmt.Fprintf(&b, "| %d | %s | %d | %d |\n", int(l), l, report.Distribution[l], report.Cleaned[l])
		}
		b.WriteString("\n")
	}

	for _, d := range report.Datasets {
		fmt.Fprintf(&b, "## %s tweets\n\n", d.Name)
		fmt.Fprintf(&b, "- Rows: %d\n", d.Rows)
		fmt.Fprintf(&b, "- Cleaned (non-empty): %d\n", d.Cleaned)
		fmt.Fprintf(&b, "- Rejected by cleaner: %d\n", d.Rejected)
		if d.Adjectives > 0 {
			fmt.Fprintf(&b, "- Adjectives found: %d\n", d.Adjectives)
		}
		b.WriteString("\n")

		top := explore.TopN(d.TopWords, r.topN)
		if len(top) > 0 {
			fmt.Fprintf(&b, "### Top %d words\n\n", len(top))
			b.WriteString("| # | word | count |\n|---:|---|---:|\n")
			for i, w := range top {
				fmt.Fprintf(&b, "| %d | `%s` | %d |\n", i+1, w.Word, w.Count)
			}
			b.WriteString("\n")
		}

		l := d.Lengths
		if l.Count > 0 {
			b.WriteString("### Text length (characters)\n\n")
			b.WriteString("| min | max | mean | median | stddev | p95 |\n|---:|---:|---:|---:|---:|---:|\n")
			fmt.Fprintf(&b, "| %.0f | %.0f | %.1f | %.1f | %.1f | %.0f |\n\n",
				l.Min, l.Max, l.Mean, l.Median, l.StdDev, l.P95)
		}
	}

	if len(report.Profiles) > 0 {
		b.WriteString("## Column profiles\n\n")
		for _, p := range report.Profiles {
			fmt.Fprintf(&b, "### %s (%d rows)\n\n", p.Name, p.Rows)
			b.WriteString("| column | type | unique | nulls |\n|---|---|---:|---:|\n")
			for _, c := range p.Columns {
				fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", c.Name, c.Type, c.Unique, c.Nulls)
			}
			b.WriteString("\n")
		}
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## Model summary\n\n")
		fmt.Fprintf(&b, "Written by %s/%s. It does not change any number above.\n\n", report.LLM.Provider, report.LLM.Model)
	}

	return b.String()
}

// RenderSummary prints a short run summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintln(w, "\n=== Exploration Summary ===")
	for _, d := range report.Datasets {
		fmt.Fprintf(w, "%-11s %6d rows, %6d cleaned, %5d rejected", d.Name, d.Rows, d.Cleaned, d.Rejected)
		if len(d.TopWords) > 0 {
			words := make([]string, 0, 3)
			for _, wc := range explore.TopN(d.TopWords, 3) {
				words = append(words, wc.Word)
			}
			fmt.Fprintf(w, "  top: %s", strings.Join(words, ", "))
		}
		fmt.Fprintln(w)
	}
	if report.LLM != nil && len(report.LLM.Warnings) > 0 {
		fmt.Fprintf(w, "LLM warnings: %d\n", len(report.LLM.Warnings))
	}
}

func sortedLabels(dist map[model.Label]int) []model.Label {
	labels := make([]model.Label, 0, len(dist))
	for l := range dist {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
