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

var prepareTimeout time.Duration

// prepareFlags maps prepare flags to config keys
var prepareFlags = map[string]string{
	"depressive":    "input.depressive",
	"random":        "input.random",
	"encoding":      "input.random_encoding",
	"max-rows":      "input.random_max_rows",
	"sentiment":     "input.sentiment_filter",
	"output":        "output.path",
	"delimiter":     "output.delimiter",
	"min-length":    "clean.min_length",
	"stopwords":     "clean.extra_stopwords_file",
	"lemmatize":     "clean.lemmatize",
	"cache":         "cache.enabled",
	"cache-dir":     "cache.dir",
	"workers":       "concurrency.workers",
	"ignore-robots": "http.ignore_robots",
	"http-proxy":    "http.http_proxy",
	"https-proxy":   "http.https_proxy",
}

// prepareCmd represents the prepare command
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean both datasets and write the merged labelled file",
	Long: `Prepare builds the processed dataset:
- Load the depressive tweets CSV and drop duplicate tweet ids
- Load the random tweets CSV (Latin-1, first 40000 rows, Sentiment == 1)
- Label rows 1 (depressive) and 0 (random) and concatenate them
- Clean every tweet and drop rows whose clean text is empty
- Write text, label and clean_text as a tab separated file

Dataset locations may be local paths or http(s) URLs.

Example:
  tweetprep prepare
  tweetprep prepare --depressive data/d.csv --random data/r.csv --output out/processed.tsv
  tweetprep prepare --workers 8 --cache=false`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(), prepareFlags)
	},
	RunE: runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)

	def := model.DefaultConfig()
	f := prepareCmd.Flags()

	// Input flags
	f.String("depressive", def.Input.Depressive, "depressive tweets CSV (path or URL)")
	f.String("random", def.Input.Random, "random tweets CSV (path or URL)")
	f.String("encoding", def.Input.RandomEncoding, "random CSV encoding (iso-8859-1, windows-1252, utf-8)")
	f.Int("max-rows", def.Input.RandomMaxRows, "random CSV rows to read (0 = all)")
	f.String("sentiment", def.Input.SentimentFilter, "keep random rows with this Sentiment value (empty keeps all)")

	// Output flags
	f.StringP("output", "o", def.Output.Path, "processed dataset path")
	f.String("delimiter", def.Output.Delimiter, `field delimiter ("\t", tab, comma or a single character)`)

	// Cleaning flags
	f.Int("min-length", def.Clean.MinLength, "reject tweets with this many characters or fewer")
	f.String("stopwords", "", "file with extra stop words, one per line")
	f.Bool("lemmatize", def.Clean.Lemmatize, "lemmatise tokens")
	f.Bool("cache", def.Cache.Enabled, "memoise cleaned text on disk")
	f.String("cache-dir", def.Cache.Dir, "cache directory")
	f.Int("workers", def.Concurrency.Workers, "cleaning workers")

	// HTTP flags
	f.Bool("ignore-robots", false, "skip robots.txt checks for dataset URLs")
	f.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	f.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	f.DurationVar(&prepareTimeout, "timeout", 30*time.Minute, "overall timeout")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), prepareTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  tweetprep prepare\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Depressive:   %s\n", cfg.Input.Depressive)
	fmt.Fprintf(os.Stderr, "  Random:       %s\n", cfg.Input.Random)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", cfg.Output.Path)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	result, err := p.Prepare(ctx)
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}

	s := result.Stats
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Prepare Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Depressive:   %d loaded, %d unique\n", s.DepressiveLoaded, s.DepressiveUnique)
	fmt.Fprintf(os.Stderr, "  Random:       %d read, %d kept\n", s.RandomLoaded, s.RandomKept)
	fmt.Fprintf(os.Stderr, "  Merged:       %d\n", s.Merged)
	fmt.Fprintf(os.Stderr, "  Rejected:     %d\n", s.Rejected)
	fmt.Fprintf(os.Stderr, "  Dropped:      %d (empty after cleaning)\n", s.Dropped)
	fmt.Fprintf(os.Stderr, "  Written:      %d\n", s.Written)
	if s.SkippedRows > 0 {
		fmt.Fprintf(os.Stderr, "  Malformed:    %d rows skipped\n", s.SkippedRows)
	}
	if cfg.Cache.Enabled {
		fmt.Fprintf(os.Stderr, "  Cache:        %d hits, %d misses\n", result.CacheHits, result.CacheMiss)
	}
	fmt.Fprintf(os.Stderr, "  Duration:     %v\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", result.OutputPath)

	return nil
}
