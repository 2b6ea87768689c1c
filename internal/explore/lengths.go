package explore

import (
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/ppiankov/tweetprep/internal/model"
)

// Lengths summarises text lengths in characters
func Lengths(texts []string) model.LengthStats {
	ls := model.LengthStats{Count: len(texts), Series: make([]int, len(texts))}
	if len(texts) == 0 {
		return ls
	}

	data := make(stats.Float64Data, len(texts))
	for i, t := range texts {
		n := utf8.RuneCountInString(t)
		ls.Series[i] = n
		data[i] = float64(n)
	}

	// errors only come back for empty input, handled above
	ls.Min, _ = data.Min()
	ls.Max, _ = data.Max()
	ls.Mean, _ = data.Mean()
	ls.Median, _ = data.Median()
	ls.StdDev, _ = data.StandardDeviation()
	ls.P95, _ = data.Percentile(95)
	return ls
}
