package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/tweetprep/internal/cache"
	"github.com/ppiankov/tweetprep/internal/clean"
	"github.com/ppiankov/tweetprep/internal/dataset"
	"github.com/ppiankov/tweetprep/internal/explore"
	"github.com/ppiankov/tweetprep/internal/llm"
	"github.com/ppiankov/tweetprep/internal/model"
	"github.com/ppiankov/tweetprep/internal/render"
	"github.com/ppiankov/tweetprep/internal/worker"
)

// Pipeline runs the prepare and explore passes over the two datasets
type Pipeline struct {
	config     *model.Config
	fetcher    *Fetcher
	cleaner    worker.Cleaner
	cached     *clean.CachedCleaner // nil when caching is off
	batch      *worker.BatchProcessor
	renderer   *render.Renderer
	summarizer *llm.Summarizer // nil if disabled
	tagger     explore.Tagger  // loaded on first Explore
	logger     *zap.Logger
}

// PrepareResult reports what Prepare did at every stage
type PrepareResult struct {
	Stats      model.PrepareStats
	OutputPath string
	Duration   time.Duration
	CacheHits  int64
	CacheMiss  int64
}

// Loaded holds both source tables
type Loaded struct {
	Depressive *dataset.Table
	Random     *dataset.Table
}

// NewPipeline builds the cleaner, worker pool, renderer and optional
// summarizer from the configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stop := clean.NewStopWords()
	if cfg.Clean.ExtraStopwordsFile != "" {
		n, err := stop.LoadFile(cfg.Clean.ExtraStopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("load extra stop words: %w", err)
		}
		logger.Debug("loaded extra stop words", zap.Int("count", n))
	}

	var lemmatizer *clean.Lemmatizer
	if cfg.Clean.Lemmatize {
		l, err := clean.NewEnglishLemmatizer()
		if err != nil {
			return nil, err
		}
		lemmatizer = l
	}

	var cleaner worker.Cleaner = clean.New(clean.Options{
		MinLength:  cfg.Clean.MinLength,
		StopWords:  stop,
		Lemmatizer: lemmatizer,
	})

	var cached *clean.CachedCleaner
	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		ns := clean.Namespace(cfg.Clean.MinLength, stop.Len(), cfg.Clean.Lemmatize)
		cached = clean.NewCachedCleaner(cleaner, store, ns)
		cleaner = cached
	}

	llmConfig := llm.ConfigFromModel(cfg)
	llmConfig.Logger = logger
	summarizer, err := llm.NewSummarizer(llmConfig)
	if err != nil {
		// a broken provider must not stop the analysis
		logger.Warn("failed to initialize LLM provider", zap.Error(err))
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	return &Pipeline{
		config:     cfg,
		fetcher:    NewFetcher(cfg.HTTP, limiter, logger),
		cleaner:    cleaner,
		cached:     cached,
		batch:      worker.NewBatchProcessor(cleaner, cfg.Concurrency.Workers),
		renderer:   render.NewRenderer(cfg.Explore.TopN),
		summarizer: summarizer,
		logger:     logger,
	}, nil
}

// WithTagger replaces the part-of-speech tagger used by Explore
func (p *Pipeline) WithTagger(t explore.Tagger) *Pipeline {
	p.tagger = t
	return p
}

// Load reads both datasets concurrently
func (p *Pipeline) Load(ctx context.Context) (*Loaded, error) {
	in := p.config.Input
	opts := dataset.RandomOptions{
		Encoding:        in.RandomEncoding,
		Columns:         in.RandomColumns,
		MaxRows:         in.RandomMaxRows,
		SentimentFilter: in.SentimentFilter,
	}

	var dep, rnd *dataset.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := p.readTable(gctx, in.Depressive, dataset.ReadDepressive)
		if err != nil {
			return fmt.Errorf("load depressive tweets: %w", err)
		}
		dep = t
		return nil
	})
	g.Go(func() error {
		t, err := p.readTable(gctx, in.Random, func(r io.Reader) (*dataset.Table, error) {
			return dataset.ReadRandom(r, opts)
		})
		if err != nil {
			return fmt.Errorf("load random tweets: %w", err)
		}
		rnd = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("datasets loaded",
		zap.Int("depressive_rows", dep.Rows), zap.Int("depressive_skipped", dep.Skipped),
		zap.Int("random_rows", rnd.Rows), zap.Int("random_kept", len(rnd.Tweets)),
		zap.Int("random_skipped", rnd.Skipped))

	return &Loaded{Depressive: dep, Random: rnd}, nil
}

func (p *Pipeline) readTable(ctx context.Context, location string, read func(io.Reader) (*dataset.Table, error)) (*dataset.Table, error) {
	rc, err := dataset.Open(ctx, location, p.fetcher)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return read(rc)
}

// Prepare loads, dedupes, merges, cleans and writes the merged dataset
func (p *Pipeline) Prepare(ctx context.Context) (*PrepareResult, error) {
	start := time.Now()

	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := model.PrepareStats{
		DepressiveLoaded: len(loaded.Depressive.Tweets),
		RandomLoaded:     loaded.Random.Rows,
		RandomKept:       len(loaded.Random.Tweets),
		SkippedRows:      loaded.Depressive.Skipped + loaded.Random.Skipped,
	}

	depressive := dataset.Dedupe(loaded.Depressive.Tweets)
	stats.DepressiveUnique = len(depressive)

	merged := dataset.Merge(depressive, loaded.Random.Tweets)
	stats.Merged = len(merged)

	rejected, err := p.cleanTweets(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	stats.Rejected = rejected

	kept := dataset.DropEmpty(merged)
	stats.Dropped = len(merged) - len(kept)

	written, err := p.writeOutput(kept)
	if err != nil {
		return nil, err
	}
	stats.Written = written

	result := &PrepareResult{
		Stats:      stats,
		OutputPath: p.config.Output.Path,
		Duration:   time.Since(start),
	}
	if p.cached != nil {
		result.CacheHits, result.CacheMiss = p.cached.Stats()
	}

	p.logger.Info("prepare finished",
		zap.Int("merged", stats.Merged), zap.Int("rejected", stats.Rejected),
		zap.Int("dropped", stats.Dropped), zap.Int("written", stats.Written),
		zap.String("output", result.OutputPath), zap.Duration("duration", result.Duration))

	return result, nil
}

func (p *Pipeline) writeOutput(tweets []model.Tweet) (int, error) {
	delim, err := dataset.ParseDelimiter(p.config.Output.Delimiter)
	if err != nil {
		return 0, err
	}

	path := p.config.Output.Path
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	n, err := dataset.WriteTSV(f, tweets, delim)
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close output: %w", err)
	}
	return n, nil
}

// cleanTweets fills CleanText in place and returns how many rows the
// cleaner rejected. Rejected rows keep an empty clean text.
func (p *Pipeline) cleanTweets(ctx context.Context, tweets []model.Tweet) (int, error) {
	results := p.batch.ProcessTexts(ctx, model.Texts(tweets))

	rejected := 0
	for i, r := range results {
		if r.Error != nil {
			return rejected, r.Error
		}
		if !r.Kept {
			rejected++
		}
		tweets[i].CleanText = r.Clean
	}
	return rejected, nil
}

// Explore cleans each dataset separately and builds the exploration report
func (p *Pipeline) Explore(ctx context.Context) (*model.Report, error) {
	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}

	if p.tagger == nil && p.config.Explore.UseTagger {
		p.logger.Info("loading part-of-speech model")
		tagger, err := explore.NewProseTagger()
		if err != nil {
			return nil, fmt.Errorf("load tagger: %w", err)
		}
		p.tagger = tagger
	}
	explorer := explore.NewExplorer(p.tagger, p.config.Explore.TopN, p.config.Explore.MaxWords, p.logger)

	report := &model.Report{RunID: uuid.New().String(), GeneratedAt: time.Now().UTC()}
	p.logger.Info("explore started", zap.String("run_id", report.RunID))

	for _, table := range []*dataset.Table{loaded.Depressive, loaded.Random} {
		profile, err := dataset.Profile(table)
		if err != nil {
			// profiling is informational
			p.logger.Warn("profile failed", zap.String("dataset", table.Name), zap.Error(err))
		} else {
			report.Profiles = append(report.Profiles, profile)
		}
	}

	depressive := dataset.Dedupe(loaded.Depressive.Tweets)
	sets := []explore.Dataset{
		{Name: loaded.Depressive.Name, Label: model.LabelDepressive, Tweets: depressive},
		{Name: loaded.Random.Name, Label: model.LabelRandom, Tweets: loaded.Random.Tweets},
	}

	report.Distribution = explore.LabelDistribution(dataset.Merge(sets[0].Tweets, sets[1].Tweets))

	for i := range sets {
		rejected, err := p.cleanTweets(ctx, sets[i].Tweets)
		if err != nil {
			return nil, fmt.Errorf("clean %s: %w", sets[i].Name, err)
		}
		sets[i].Rejected = rejected

		dr, err := explorer.Explore(ctx, sets[i])
		if err != nil {
			return nil, fmt.Errorf("explore %s: %w", sets[i].Name, err)
		}
		report.Datasets = append(report.Datasets, dr)
	}

	merged := dataset.DropEmpty(dataset.Merge(sets[0].Tweets, sets[1].Tweets))
	report.Cleaned = explore.LabelDistribution(merged)

	// LLM runs last and never touches the numbers above
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			return nil, fmt.Errorf("llm summary: %w", err)
		}
		report.LLM = summary
	}

	return report, nil
}

// ReportPaths lists the files written by RenderReport
type ReportPaths struct {
	JSON     string
	Markdown string
	Charts   string
	LLM      string
}

// RenderReport writes JSON, Markdown and chart HTML into dir, plus a
// separate LLM summary when one was produced
func (p *Pipeline) RenderReport(report *model.Report, dir string) (*ReportPaths, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	stamp := report.GeneratedAt.Format("20060102-150405")
	base := filepath.Join(dir, "explore-"+stamp)
	if len(report.RunID) >= 8 {
		base += "-" + report.RunID[:8]
	}
	paths := &ReportPaths{
		JSON:     base + ".json",
		Markdown: base + ".md",
		Charts:   base + ".html",
	}

	if err := p.renderer.RenderJSON(report, paths.JSON); err != nil {
		return nil, fmt.Errorf("render JSON: %w", err)
	}
	if err := p.renderer.RenderMarkdown(report, paths.Markdown); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	if err := render.WriteChartsPage(report, p.config.Explore.MaxWords, paths.Charts); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	if report.LLM != nil && report.LLM.Enabled {
		paths.LLM = strings.TrimSuffix(paths.Markdown, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), paths.LLM); err != nil {
			p.logger.Warn("failed to write LLM summary", zap.Error(err))
			paths.LLM = ""
		}
	}

	return paths, nil
}

// RenderSummary prints the short run summary to w
func (p *Pipeline) RenderSummary(w io.Writer, report *model.Report) {
	p.renderer.RenderSummary(w, report)
}
