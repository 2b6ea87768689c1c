package dataset

import (
	"strings"

	"github.com/ppiankov/tweetprep/internal/model"
)

// Dedupe drops tweets whose id was already seen; the first occurrence wins.
// Tweets without an id are always kept.
func Dedupe(tweets []model.Tweet) []model.Tweet {
	seen := make(map[string]struct{}, len(tweets))
	out := make([]model.Tweet, 0, len(tweets))
	for _, t := range tweets {
		if t.ID != "" {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
		}
		out = append(out, t)
	}
	return out
}

// Merge concatenates datasets in order
func Merge(sets ...[]model.Tweet) []model.Tweet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make([]model.Tweet, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// DropEmpty removes tweets whose clean text is empty or only whitespace
func DropEmpty(tweets []model.Tweet) []model.Tweet {
	out := make([]model.Tweet, 0, len(tweets))
	for _, t := range tweets {
		if strings.TrimSpace(t.CleanText) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
