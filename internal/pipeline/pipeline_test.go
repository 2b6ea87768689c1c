package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/tweetprep/internal/explore"
	"github.com/ppiankov/tweetprep/internal/model"
)

const depressiveCSV = `,tweet.id,text
0,1,I can't stand this day anymore
1,1,I can't stand this day anymore
2,2,http://news.example.com/a shared article
3,3,@friend #sad feeling low today
`

const randomCSV = `ItemID,Sentiment,SentimentSource,SentimentText
1,1,Sentiment140,what a great sunny day
2,0,Sentiment140,is so sad right now
3,1,Sentiment140,ok
`

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	dir := t.TempDir()

	dep := filepath.Join(dir, "depressive.csv")
	rnd := filepath.Join(dir, "random.csv")
	if err := os.WriteFile(dep, []byte(depressiveCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rnd, []byte(randomCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Input.Depressive = dep
	cfg.Input.Random = rnd
	cfg.Input.RandomEncoding = "utf-8"
	cfg.Clean.Lemmatize = false
	cfg.Cache.Enabled = false
	cfg.Explore.UseTagger = false
	cfg.Concurrency.Workers = 2
	cfg.Output.Path = filepath.Join(dir, "out", "processed.csv")
	cfg.Output.ReportDir = filepath.Join(dir, "reports")
	return cfg
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	result, err := p.Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	want := model.PrepareStats{
		DepressiveLoaded: 4,
		DepressiveUnique: 3,
		RandomLoaded:     3,
		RandomKept:       2,
		Merged:           5,
		Rejected:         2,
		Dropped:          2,
		Written:          3,
	}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "text\tlabel\tclean_text" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != "I can't stand this day anymore\t1\tcannot stand day anymore" {
		t.Errorf("Unexpected first row %q", lines[1])
	}
	if lines[2] != "@friend #sad feeling low today\t1\tfeeling low today" {
		t.Errorf("Unexpected second row %q", lines[2])
	}
	if lines[3] != "what a great sunny day\t0\tgreat sunny day" {
		t.Errorf("Unexpected third row %q", lines[3])
	}
}

func TestPrepare_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.Depressive = filepath.Join(t.TempDir(), "missing.csv")

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	if _, err := p.Prepare(context.Background()); err == nil {
		t.Fatal("Expected error for missing input")
	}
	if _, err := os.Stat(cfg.Output.Path); !os.IsNotExist(err) {
		t.Error("Expected no output file on failure")
	}
}

func TestPrepare_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Prepare(ctx); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestNewPipeline_ExtraStopWords(t *testing.T) {
	cfg := testConfig(t)
	extra := filepath.Join(t.TempDir(), "extra.txt")
	if err := os.WriteFile(extra, []byte("# domain words\nsunny\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Clean.ExtraStopwordsFile = extra

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	if _, err := p.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	data, _ := os.ReadFile(cfg.Output.Path)
	if !strings.Contains(string(data), "\t0\tgreat day\n") {
		t.Errorf("Expected 'sunny' removed, got:\n%s", data)
	}
}

func TestNewPipeline_BadStopWordsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clean.ExtraStopwordsFile = filepath.Join(t.TempDir(), "nope.txt")
	if _, err := NewPipeline(cfg, nil); err == nil {
		t.Error("Expected error for missing stop-word file")
	}
}

func TestPrepare_WithCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	first, err := p.Prepare(context.Background())
	if err != nil {
		t.Fatalf("first Prepare failed: %v", err)
	}
	second, err := p.Prepare(context.Background())
	if err != nil {
		t.Fatalf("second Prepare failed: %v", err)
	}

	if second.Stats != first.Stats {
		t.Errorf("cached run changed stats: %+v vs %+v", second.Stats, first.Stats)
	}
	if second.CacheHits <= first.CacheHits {
		t.Errorf("Expected cache hits on second run, got %d then %d", first.CacheHits, second.CacheHits)
	}
}

type wordTagger struct {
	adjectives map[string]bool
}

func (w wordTagger) Tag(text string) ([]explore.Token, error) {
	var tokens []explore.Token
	for _, f := range strings.Fields(text) {
		tag := "NN"
		if w.adjectives[f] {
			tag = explore.TagAdjective
		}
		tokens = append(tokens, explore.Token{Text: f, Tag: tag})
	}
	return tokens, nil
}

func TestExplore(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	p.WithTagger(wordTagger{adjectives: map[string]bool{"low": true, "great": true, "sunny": true}})

	report, err := p.Explore(context.Background())
	if err != nil {
		t.Fatalf("Explore failed: %v", err)
	}

	if len(report.Datasets) != 2 {
		t.Fatalf("Expected 2 dataset reports, got %d", len(report.Datasets))
	}
	dep, rnd := report.Datasets[0], report.Datasets[1]
	if dep.Label != model.LabelDepressive || rnd.Label != model.LabelRandom {
		t.Errorf("Unexpected labels %v, %v", dep.Label, rnd.Label)
	}
	if dep.Rows != 3 || dep.Rejected != 1 || dep.Cleaned != 2 {
		t.Errorf("Unexpected depressive counts: %+v", dep)
	}
	if rnd.Rows != 2 || rnd.Rejected != 1 || rnd.Cleaned != 1 {
		t.Errorf("Unexpected random counts: %+v", rnd)
	}
	if len(dep.TopWords) != 1 || dep.TopWords[0].Word != "low" {
		t.Errorf("Unexpected depressive top words: %+v", dep.TopWords)
	}

	if report.Distribution[model.LabelDepressive] != 3 || report.Distribution[model.LabelRandom] != 2 {
		t.Errorf("Unexpected distribution before cleaning: %v", report.Distribution)
	}
	if report.Cleaned[model.LabelDepressive] != 2 || report.Cleaned[model.LabelRandom] != 1 {
		t.Errorf("Unexpected distribution after cleaning: %v", report.Cleaned)
	}
	if len(report.Profiles) != 2 {
		t.Errorf("Expected 2 profiles, got %d", len(report.Profiles))
	}
	if report.LLM != nil {
		t.Error("Expected no LLM summary when no provider is configured")
	}
}

func TestRenderReport(t *testing.T) {
	cfg := testConfig(t)
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	report, err := p.Explore(context.Background())
	if err != nil {
		t.Fatalf("Explore failed: %v", err)
	}

	paths, err := p.RenderReport(report, cfg.Output.ReportDir)
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	for _, path := range []string{paths.JSON, paths.Markdown, paths.Charts} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Expected %s to be non-empty", path)
		}
	}
	if paths.LLM != "" {
		t.Errorf("Expected no LLM file, got %s", paths.LLM)
	}

	var buf bytes.Buffer
	p.RenderSummary(&buf, report)
	if !strings.Contains(buf.String(), "depressive") {
		t.Errorf("Summary missing dataset name: %s", buf.String())
	}
}
