package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tweetprep/internal/model"
	"github.com/ppiankov/tweetprep/internal/pipeline"
)

var exploreTimeout time.Duration

var exploreFlags = map[string]string{
	"depressive":    "input.depressive",
	"random":        "input.random",
	"encoding":      "input.random_encoding",
	"max-rows":      "input.random_max_rows",
	"report-dir":    "output.report_dir",
	"top-n":         "explore.top_n",
	"max-words":     "explore.max_words",
	"tagger":        "explore.use_tagger",
	"lemmatize":     "clean.lemmatize",
	"cache":         "cache.enabled",
	"workers":       "concurrency.workers",
	"ignore-robots": "http.ignore_robots",
	"llm":           "llm.provider",
	"llm-model":     "llm.model",
	"llm-strict":    "llm.strict",
}

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Report word frequencies, labels and text lengths for both datasets",
	Long: `Explore cleans each dataset on its own and reports:
- Most frequent adjectives (part-of-speech tagged) with a word cloud
- Label distribution of the merged rows
- Raw text length statistics per dataset
- Column types, unique values and nulls of the loaded tables

Reports are written as JSON, Markdown and an HTML chart page.
An optional LLM summary can be added; it never changes any number.

Example:
  tweetprep explore
  tweetprep explore --report-dir ./reports --top-n 20
  tweetprep explore --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(), exploreFlags)
	},
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	def := model.DefaultConfig()
	f := exploreCmd.Flags()

	f.String("depressive", def.Input.Depressive, "depressive tweets CSV (path or URL)")
	f.String("random", def.Input.Random, "random tweets CSV (path or URL)")
	f.String("encoding", def.Input.RandomEncoding, "random CSV encoding (iso-8859-1, windows-1252, utf-8)")
	f.Int("max-rows", def.Input.RandomMaxRows, "random CSV rows to read (0 = all)")

	f.String("report-dir", def.Output.ReportDir, "output directory for reports")
	f.Int("top-n", def.Explore.TopN, "words listed per dataset")
	f.Int("max-words", def.Explore.MaxWords, "words drawn in each word cloud")
	f.Bool("tagger", def.Explore.UseTagger, "count adjectives only (false counts every word)")
	f.Bool("lemmatize", def.Clean.Lemmatize, "lemmatise tokens")
	f.Bool("cache", def.Cache.Enabled, "memoise cleaned text on disk")
	f.Int("workers", def.Concurrency.Workers, "cleaning workers")
	f.Bool("ignore-robots", false, "skip robots.txt checks for dataset URLs")

	// LLM flags
	f.String("llm", "", "LLM provider for an optional summary (openai, ollama)")
	f.String("llm-model", "", "LLM model name")
	f.Bool("llm-strict", def.LLM.Strict, "reject summaries quoting words absent from the report")

	f.DurationVar(&exploreTimeout, "timeout", 30*time.Minute, "overall timeout")
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := resolveLLM(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), exploreTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Depressive: %s\n", cfg.Input.Depressive)
		fmt.Fprintf(os.Stderr, "Random:     %s\n", cfg.Input.Random)
		fmt.Fprintf(os.Stderr, "Tagger:     %v\n", cfg.Explore.UseTagger)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM:        %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	report, err := p.Explore(ctx)
	if err != nil {
		return fmt.Errorf("explore failed: %w", err)
	}

	paths, err := p.RenderReport(report, cfg.Output.ReportDir)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.RenderSummary(os.Stdout, report)

	fmt.Fprintf(os.Stderr, "\n✓ Wrote JSON: %s\n", paths.JSON)
	fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", paths.Markdown)
	fmt.Fprintf(os.Stderr, "✓ Wrote charts: %s\n", paths.Charts)
	if paths.LLM != "" {
		fmt.Fprintf(os.Stderr, "✓ Wrote LLM summary: %s\n", paths.LLM)
	}
	if report.LLM != nil {
		for _, w := range report.LLM.Warnings {
			fmt.Fprintf(os.Stderr, "  %s\n", w)
		}
	}

	return nil
}
