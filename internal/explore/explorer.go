package explore

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tweetprep/internal/model"
)

// Dataset is one cleaned source dataset ready for exploration
type Dataset struct {
	Name     string
	Label    model.Label
	Tweets   []model.Tweet // CleanText already filled in
	Rejected int
}

// Explorer builds per-dataset exploration reports
type Explorer struct {
	tagger   Tagger // nil counts every clean word instead of adjectives
	topN     int
	maxWords int
	logger   *zap.Logger
}

// NewExplorer creates an Explorer
func NewExplorer(tagger Tagger, topN, maxWords int, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explorer{tagger: tagger, topN: topN, maxWords: maxWords, logger: logger}
}

// Explore extracts adjectives from the clean text, counts them and
// summarises raw text lengths
func (e *Explorer) Explore(ctx context.Context, ds Dataset) (model.DatasetReport, error) {
	report := model.DatasetReport{
		Name:     ds.Name,
		Label:    ds.Label,
		Rows:     len(ds.Tweets),
		Rejected: ds.Rejected,
	}

	docs := make([]string, 0, len(ds.Tweets))
	for i, t := range ds.Tweets {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
		if strings.TrimSpace(t.CleanText) == "" {
			continue
		}
		report.Cleaned++

		if e.tagger == nil {
			docs = append(docs, t.CleanText)
			continue
		}
		adjs, err := Adjectives(e.tagger, t.CleanText)
		if err != nil {
			return report, fmt.Errorf("%s row %d: %w", ds.Name, i, err)
		}
		report.Adjectives += len(adjs)
		docs = append(docs, strings.Join(adjs, " "))
	}

	counts, err := Frequencies(docs)
	if err != nil {
		return report, fmt.Errorf("%s: %w", ds.Name, err)
	}
	report.TopWords = TopN(counts, e.topN)
	report.CloudWords = TopN(counts, e.maxWords)
	report.Lengths = Lengths(model.Texts(ds.Tweets))

	e.logger.Debug("explored dataset",
		zap.String("dataset", ds.Name),
		zap.Int("rows", report.Rows),
		zap.Int("cleaned", report.Cleaned),
		zap.Int("adjectives", report.Adjectives),
		zap.Int("distinct_words", len(counts)),
	)
	return report, nil
}
