package worker

import (
	"context"
	"sort"
)

// Cleaner is the text cleaning step run by a batch
type Cleaner interface {
	Clean(text string) (string, bool)
}

// CleanJob cleans one row of a text column
type CleanJob struct {
	Index   int
	Text    string
	Cleaner Cleaner
}

// Execute cleans the text
func (j *CleanJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &CleanResult{Index: j.Index, Error: err}
	}
	cleaned, kept := j.Cleaner.Clean(j.Text)
	return &CleanResult{Index: j.Index, Clean: cleaned, Kept: kept}
}

// CleanResult is the outcome for one row
type CleanResult struct {
	Index int
	Clean string
	Kept  bool // false when the cleaner rejected the row outright
	Error error
}

// GetIndex returns the row index
func (r *CleanResult) GetIndex() int {
	return r.Index
}

// GetError returns the job error, if any
func (r *CleanResult) GetError() error {
	return r.Error
}

// BatchProcessor cleans a whole column concurrently
type BatchProcessor struct {
	cleaner     Cleaner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(cleaner Cleaner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		cleaner:     cleaner,
		concurrency: concurrency,
	}
}

// ProcessTexts cleans every text and returns results in input order.
// If ctx is cancelled part way, the missing rows are returned with ctx.Err().
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*CleanResult {
	if len(texts) == 0 {
		return []*CleanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, text := range texts {
			if !pool.Submit(&CleanJob{Index: i, Text: text, Cleaner: b.cleaner}) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*CleanResult, 0, len(texts))
collect:
	for {
		select {
		case r, ok := <-pool.Results():
			if !ok {
				break collect
			}
			results = append(results, r.(*CleanResult))
		case <-ctx.Done():
			// stop the workers now and keep whatever already finished
			pool.Shutdown()
			for r := range pool.Results() {
				results = append(results, r.(*CleanResult))
			}
			break collect
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	if len(results) == len(texts) {
		return results
	}

	// fill rows the pool never got to
	ordered := make([]*CleanResult, len(texts))
	for _, r := range results {
		ordered[r.Index] = r
	}
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	for i := range ordered {
		if ordered[i] == nil {
			ordered[i] = &CleanResult{Index: i, Error: err}
		}
	}
	return ordered
}
