package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/abeelha/btc-tracker/internal/models"
)

// Artifact file names, regenerated in full on every run.
const (
	PriceChartFile     = "bitcoin_price_chart.html"
	MarketCapChartFile = "bitcoin_market_cap_chart.html"
	GaugeFile          = "bitcoin_gauge.html"
	DashboardFile      = "bitcoin_dashboard.html"
)

// Builder renders self-contained HTML chart artifacts from dataset rows.
// It is a pure consumer: no input is mutated, only artifact files are written.
type Builder struct {
	outDir string
}

func NewBuilder(outDir string) *Builder {
	return &Builder{outDir: outDir}
}

// RenderAll regenerates every artifact from the given rows and returns the
// written paths. Rows must be non-empty and sorted ascending by date.
func (b *Builder) RenderAll(records []models.PriceRecord) ([]string, error) {
	summary, err := Summarize(records)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}

	artifacts := []struct {
		name  string
		chart renderable
	}{
		{PriceChartFile, b.priceChart(records)},
		{MarketCapChartFile, b.marketCapChart(records)},
		{GaugeFile, b.gauge(summary)},
	}

	var paths []string
	for _, a := range artifacts {
		path, err := b.write(a.name, a.chart)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	path, err := b.dashboard(records, summary)
	if err != nil {
		return nil, err
	}
	return append(paths, path), nil
}

// WritePlaceholders emits minimal placeholder artifacts for the failure path
// where the dataset is missing or empty.
func (b *Builder) WritePlaceholders() ([]string, error) {
	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}

	const placeholder = `<!DOCTYPE html>
<html><head><title>Bitcoin Report</title></head>
<body><p>No dataset available yet. Run the collector first.</p></body></html>
`
	names := []string{PriceChartFile, MarketCapChartFile, GaugeFile, DashboardFile}
	var paths []string
	for _, name := range names {
		path := filepath.Join(b.outDir, name)
		if err := os.WriteFile(path, []byte(placeholder), 0o644); err != nil {
			return nil, fmt.Errorf("write placeholder %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (b *Builder) priceChart(records []models.PriceRecord) *charts.Line {
	dates := make([]string, len(records))
	prices := make([]opts.LineData, len(records))
	volumes := make([]opts.BarData, len(records))
	for i, r := range records {
		dates[i] = r.Date
		prices[i] = opts.LineData{Value: r.Price}
		volumes[i] = opts.BarData{Value: r.Volume}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bitcoin Price", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Bitcoin Price Over Time", Subtitle: "daily close, USD"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price (USD)"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Volume (USD)", Type: "value"})

	line.SetXAxis(dates).
		AddSeries("Price (USD)", prices, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	bar := charts.NewBar()
	bar.SetXAxis(dates).
		AddSeries("24h Volume", volumes, charts.WithBarChartOpts(opts.BarChart{YAxisIndex: 1}))

	line.Overlap(bar)
	return line
}

func (b *Builder) marketCapChart(records []models.PriceRecord) *charts.Line {
	dates := make([]string, len(records))
	caps := make([]opts.LineData, len(records))
	for i, r := range records {
		dates[i] = r.Date
		caps[i] = opts.LineData{Value: r.MarketCap}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bitcoin Market Cap", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Bitcoin Market Capitalization", Subtitle: "USD"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(dates).
		AddSeries("Market Cap (USD)", caps, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// gauge shows the latest price's position within the window's [min, max],
// scaled to 0..100. The actual dollar values go in the subtitle.
func (b *Builder) gauge(s Summary) *charts.Gauge {
	g := charts.NewGauge()
	g.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bitcoin Price Gauge", Width: "800px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Current Price vs Window Range",
			Subtitle: fmt.Sprintf("current $%.2f | low $%.2f | high $%.2f (%s .. %s)",
				s.Current, s.Min, s.Max, s.FirstDate, s.LastDate),
		}),
	)
	g.AddSeries("Price position", []opts.GaugeData{
		{Name: "% of range", Value: PositionPercent(s.Current, s.Min, s.Max)},
	})
	return g
}

func (b *Builder) dashboard(records []models.PriceRecord, s Summary) (string, error) {
	dates := make([]string, len(records))
	volumes := make([]opts.LineData, len(records))
	for i, r := range records {
		dates[i] = r.Date
		volumes[i] = opts.LineData{Value: r.Volume}
	}

	volume := charts.NewLine()
	volume.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Bitcoin 24h Trading Volume", Subtitle: "USD"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	volume.SetXAxis(dates).AddSeries("24h Volume", volumes)

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Bitcoin Report | current $%.2f, window $%.2f..$%.2f, avg $%.2f",
		s.Current, s.Min, s.Max, s.Avg)
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		b.priceChart(records),
		volume,
		b.marketCapChart(records),
		b.gauge(s),
	)

	path := filepath.Join(b.outDir, DashboardFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", DashboardFile, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render %s: %w", DashboardFile, err)
	}
	return path, nil
}

type renderable interface {
	Render(w io.Writer) error
}

func (b *Builder) write(name string, chart renderable) (string, error) {
	path := filepath.Join(b.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return path, nil
}
