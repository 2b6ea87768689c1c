package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ppiankov/tweetprep/internal/model"
)

const (
	chartWidth  = "1200px"
	chartHeight = "700px"
)

// BluePalette is hsl(210, 100%, 50-70%) in five steps
var BluePalette = []string{
	"hsl(210, 100%, 50%)",
	"hsl(210, 100%, 55%)",
	"hsl(210, 100%, 60%)",
	"hsl(210, 100%, 65%)",
	"hsl(210, 100%, 70%)",
}

// WordCloud charts the most frequent words of one dataset, at most maxWords
func WordCloud(title string, words []model.WordCount, maxWords int) *charts.WordCloud {
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}

	data := make([]opts.WordCloudData, len(words))
	for i, w := range words {
		data[i] = opts.WordCloudData{Name: w.Word, Value: w.Count}
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, BackgroundColor: "white"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d words", len(words))}),
		charts.WithColorsOpts(opts.Colors(BluePalette)),
	)
	wc.AddSeries("words", data).SetSeriesOptions(
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			Shape:     "circle",
			SizeRange: []float32{12, 80},
		}),
	)
	return wc
}

// LabelBar charts the number of rows per label
func LabelBar(dist map[model.Label]int) *charts.Bar {
	labels := sortedLabels(dist)

	x := make([]string, len(labels))
	data := make([]opts.BarData, len(labels))
	for i, l := range labels {
		x[i] = strconv.Itoa(int(l)) + " (" + l.String() + ")"
		data[i] = opts.BarData{Value: dist[l]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Label distribution"}),
		charts.WithColorsOpts(opts.Colors(BluePalette)),
	)
	bar.SetXAxis(x).AddSeries("rows", data)
	return bar
}

// LengthLine plots per-row text length for each dataset
func LengthLine(reports []model.DatasetReport) *charts.Line {
	longest := 0
	for _, r := range reports {
		if n := len(r.Lengths.Series); n > longest {
			longest = n
		}
	}
	x := make([]int, longest)
	for i := range x {
		x[i] = i
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Tweet length (characters)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithColorsOpts(opts.Colors(BluePalette)),
	)
	line.SetXAxis(x)
	for _, r := range reports {
		data := make([]opts.LineData, len(r.Lengths.Series))
		for i, n := range r.Lengths.Series {
			data[i] = opts.LineData{Value: n}
		}
		line.AddSeries(r.Name, data)
	}
	return line
}

// ChartsPage renders every chart of a report onto one HTML page
func ChartsPage(report *model.Report, maxWords int, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "tweetprep exploration"

	for _, d := range report.Datasets {
		page.AddCharts(WordCloud(d.Name+" adjectives", d.CloudWords, maxWords))
	}
	if len(report.Distribution) > 0 {
		page.AddCharts(LabelBar(report.Distribution))
	}
	if len(report.Datasets) > 0 {
		page.AddCharts(LengthLine(report.Datasets))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// WriteChartsPage renders the charts page to path
func WriteChartsPage(report *model.Report, maxWords int, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create charts file: %w", err)
	}
	if err := ChartsPage(report, maxWords, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
