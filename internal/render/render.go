// Package render draws computed chart values with go-chart.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Geometry of one category slot on the x axis.
const (
	boxHalfWidth = 0.25
	barSlotWidth = 0.8
)

// lineColor is the stroke of the time series.
var lineColor = drawing.ColorFromHex("4682b4")

// ChartSink renders results to SVG or PNG.
type ChartSink struct{}

var _ contract.RenderSink = &ChartSink{}

// NewChartSink creates a go-chart backed render sink.
func NewChartSink() *ChartSink {
	return &ChartSink{}
}

// RenderBoxPlot draws one box with whiskers per summarized group.
// Failed groups keep their tick but draw nothing.
func (s *ChartSink) RenderBoxPlot(w io.Writer, result schema.BoxPlotResult, cfg contract.ChartConfig) error {
	provider, err := rendererFor(cfg.Format)
	if err != nil {
		return err
	}
	color := paletteColor(cfg.Palette, 0)

	var series []chart.Series
	ticks := []chart.Tick{{Value: 0.5}}
	for i, g := range result.Groups {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: g.Group})
		if g.Summary == nil {
			continue
		}
		series = append(series, boxSeries(g.Group, x, *g.Summary, color)...)
	}
	if len(series) == 0 {
		return fmt.Errorf("box plot has no summarized group: %w", schema.ErrNothingToRender)
	}
	n := float64(len(result.Groups))
	ticks = append(ticks, chart.Tick{Value: n + 0.5})

	ch := baseChart(cfg, result.YDomain)
	ch.XAxis = chart.XAxis{Name: cfg.XLabel, Ticks: ticks, Range: &chart.ContinuousRange{Min: 0.5, Max: n + 0.5}}
	ch.Series = series
	return ch.Render(provider, w)
}

// boxSeries returns the outline, median and whiskers of one box.
func boxSeries(name string, x float64, s schema.Summary, color drawing.Color) []chart.Series {
	stroke := chart.Style{StrokeColor: color, StrokeWidth: 1.5}
	left, right := x-boxHalfWidth, x+boxHalfWidth
	capLeft, capRight := x-boxHalfWidth/2, x+boxHalfWidth/2
	return []chart.Series{
		chart.ContinuousSeries{
			Name:    name,
			Style:   stroke,
			XValues: []float64{left, right, right, left, left},
			YValues: []float64{s.Q1, s.Q1, s.Q3, s.Q3, s.Q1},
		},
		chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 2},
			XValues: []float64{left, right},
			YValues: []float64{s.Median, s.Median},
		},
		// Whiskers are vertical so the x values repeat.
		chart.ContinuousSeries{Style: stroke, XValues: []float64{x, x}, YValues: []float64{s.Min, s.Q1}},
		chart.ContinuousSeries{Style: stroke, XValues: []float64{x, x}, YValues: []float64{s.Q3, s.Max}},
		chart.ContinuousSeries{Style: stroke, XValues: []float64{capLeft, capRight}, YValues: []float64{s.Min, s.Min}},
		chart.ContinuousSeries{Style: stroke, XValues: []float64{capLeft, capRight}, YValues: []float64{s.Max, s.Max}},
	}
}

// RenderBarChart draws the grouped bars with one filled series per subgroup.
// Missing pairs are already zero height in result.
func (s *ChartSink) RenderBarChart(w io.Writer, result schema.BarChartResult, cfg contract.ChartConfig) error {
	provider, err := rendererFor(cfg.Format)
	if err != nil {
		return err
	}
	if len(result.Groups) == 0 || len(result.Subgroups) == 0 {
		return fmt.Errorf("bar chart has no bars: %w", schema.ErrNothingToRender)
	}

	colors := make(map[string]string, len(result.Legend))
	for _, a := range result.Legend {
		colors[a.Category] = a.Color
	}

	inner := barSlotWidth / float64(len(result.Subgroups))
	series := make([]chart.Series, 0, len(result.Subgroups))
	for j, sub := range result.Subgroups {
		var xs, ys []float64
		for i, g := range result.Groups {
			left := float64(i+1) - barSlotWidth/2 + float64(j)*inner
			height := 0.0
			if j < len(g.Bars) && g.Bars[j].Value.IsValid() {
				height = float64(g.Bars[j].Value)
			}
			// Walk up, across and down so consecutive bars share the baseline.
			xs = append(xs, left, left, left+inner, left+inner)
			ys = append(ys, 0, height, height, 0)
		}
		color := hexColor(colors[sub])
		series = append(series, chart.ContinuousSeries{
			Name:    sub,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 1, FillColor: color},
			XValues: xs,
			YValues: ys,
		})
	}

	ticks := []chart.Tick{{Value: 0.5}}
	for i, g := range result.Groups {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: g.Group})
	}
	n := float64(len(result.Groups))
	ticks = append(ticks, chart.Tick{Value: n + 0.5})

	ch := baseChart(cfg, result.YDomain)
	ch.XAxis = chart.XAxis{Name: cfg.XLabel, Ticks: ticks, Range: &chart.ContinuousRange{Min: 0.5, Max: n + 0.5}}
	ch.Series = series
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}
	return ch.Render(provider, w)
}

// RenderLineChart draws the time series with dots. Malformed points are skipped.
func (s *ChartSink) RenderLineChart(w io.Writer, result schema.LineChartResult, cfg contract.ChartConfig) error {
	provider, err := rendererFor(cfg.Format)
	if err != nil {
		return err
	}

	var times []time.Time
	var values []float64
	for _, p := range result.Points {
		if !p.Value.IsValid() {
			continue
		}
		times = append(times, p.Time)
		values = append(values, float64(p.Value))
	}
	if len(times) == 0 {
		return fmt.Errorf("line chart has no points: %w", schema.ErrNothingToRender)
	}

	// go-chart cannot scale a zero width x range
	xRange := &chart.ContinuousRange{Min: chart.TimeToFloat64(times[0]), Max: chart.TimeToFloat64(times[len(times)-1])}
	if len(times) == 1 {
		xRange.Min = chart.TimeToFloat64(times[0].Add(-24 * time.Hour))
		xRange.Max = chart.TimeToFloat64(times[0].Add(24 * time.Hour))
		times = append(times, times[0])
		values = append(values, values[0])
	}

	ch := baseChart(cfg, result.YDomain)
	ch.XAxis = chart.XAxis{Name: cfg.XLabel, Range: xRange, ValueFormatter: chart.TimeDateValueFormatter}
	ch.Series = []chart.Series{chart.TimeSeries{
		Name:    result.ValueField,
		Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2, DotColor: lineColor, DotWidth: 3},
		XValues: times,
		YValues: values,
	}}
	return ch.Render(provider, w)
}

// baseChart applies size, margins, title and the y axis.
func baseChart(cfg contract.ChartConfig, domain schema.Domain) chart.Chart {
	return chart.Chart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: chart.Style{Padding: chart.Box{
			Top:    cfg.Margins.Top,
			Right:  cfg.Margins.Right,
			Bottom: cfg.Margins.Bottom,
			Left:   cfg.Margins.Left,
		}},
		YAxis: chart.YAxis{Name: cfg.YLabel, Range: yRange(domain)},
	}
}

// yRange converts a domain to an axis range that always has a positive span.
func yRange(d schema.Domain) *chart.ContinuousRange {
	if d.Max <= d.Min {
		return &chart.ContinuousRange{Min: d.Min, Max: d.Min + 1}
	}
	return &chart.ContinuousRange{Min: d.Min, Max: d.Max}
}

func rendererFor(format schema.ImageFormat) (chart.RendererProvider, error) {
	switch format {
	case schema.SVGFormat, "":
		return chart.SVG, nil
	case schema.PNGFormat:
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("%q: %w", format, schema.ErrUnsupportedFormat)
	}
}

// paletteColor returns palette[i] cycling, or the first default color.
func paletteColor(palette []string, i int) drawing.Color {
	if len(palette) == 0 {
		palette = schema.DefaultPalette
	}
	return hexColor(palette[i%len(palette)])
}

func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
