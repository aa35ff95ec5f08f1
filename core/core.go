// Package core has the chart pipelines: load a dataset, compute chart values, track and report them.
package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/outwriter"
	"github.com/huangsam/likeplot/schema"
	"github.com/rs/zerolog"
)

// ExecutorFunc defines the function signature for executing one chart command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteBoxPlot computes the box plot and prints it using the configured output format.
// It serves as the main entry point for the 'boxplot' command.
func ExecuteBoxPlot(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetBoxPlotResults(ctx, cfg, load.NewCSVSource(cfg.BoxPlot.File), mgr)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(schema.BoxPlotChart, result.Source, cfg)
	}
	return outwriter.NewOutWriter().WriteBoxPlot(result, cfg, time.Since(start))
}

// ExecuteBarChart computes the grouped bar chart and prints it using the configured output format.
// It serves as the main entry point for the 'barplot' command.
func ExecuteBarChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetBarChartResults(ctx, cfg, load.NewCSVSource(cfg.BarChart.File), mgr)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(schema.BarChartChart, result.Source, cfg)
	}
	return outwriter.NewOutWriter().WriteBarChart(result, cfg, time.Since(start))
}

// ExecuteLineChart computes the line chart and prints it using the configured output format.
// It serves as the main entry point for the 'lineplot' command.
func ExecuteLineChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetLineChartResults(ctx, cfg, load.NewCSVSource(cfg.Line.File), mgr)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(schema.LineChart, result.Source, cfg)
	}
	return outwriter.NewOutWriter().WriteLineChart(result, cfg, time.Since(start))
}

// ExecuteRender draws all three charts into cfg.OutDir.
// A chart that fails does not stop the others; every failure is returned joined.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, sink contract.RenderSink) error {
	ctx = withSuppressHeader(ctx)
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var errs []error
	for _, kind := range schema.AllChartKinds {
		var buf bytes.Buffer
		if err := RenderChart(ctx, cfg, mgr, sink, kind, &buf); err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", kind, err))
			continue
		}
		path := filepath.Join(cfg.OutDir, fmt.Sprintf("%s.%s", kind, cfg.Format))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
			continue
		}
		fmt.Printf("Rendered %s to %s\n", kind, path)
	}
	return errors.Join(errs...)
}

// RenderChart computes one chart from its configured dataset and draws it to w.
func RenderChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, sink contract.RenderSink, kind schema.ChartKind, w io.Writer) error {
	src, err := SourceFor(cfg, kind)
	if err != nil {
		return err
	}
	cc := cfg.ChartConfig(kind)

	switch kind {
	case schema.BoxPlotChart:
		result, err := GetBoxPlotResults(ctx, cfg, src, mgr)
		if err != nil {
			return err
		}
		return sink.RenderBoxPlot(w, result, cc)
	case schema.BarChartChart:
		result, err := GetBarChartResults(ctx, cfg, src, mgr)
		if err != nil {
			return err
		}
		return sink.RenderBarChart(w, result, cc)
	default:
		result, err := GetLineChartResults(ctx, cfg, src, mgr)
		if err != nil {
			return err
		}
		return sink.RenderLineChart(w, result, cc)
	}
}

// SourceFor returns the CSV source configured for a chart kind.
func SourceFor(cfg *contract.Config, kind schema.ChartKind) (contract.DataSource, error) {
	ds, err := cfg.Dataset(kind)
	if err != nil {
		return nil, err
	}
	return load.NewCSVSource(ds.File), nil
}

// GetBoxPlotResults loads the box plot dataset from src and summarizes it per group.
func GetBoxPlotResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.StoreManager) (schema.BoxPlotResult, error) {
	ds := cfg.BoxPlot
	s := load.Schema{Required: []string{ds.Group}, Numeric: []string{ds.Value}}
	records, report, err := loadRecords(ctx, src, s)
	if err != nil {
		return schema.BoxPlotResult{}, err
	}

	ctx = beginRun(ctx, mgr, schema.BoxPlotChart, src.Name(), ds)
	result := BuildBoxPlot(records, ds.Group, ds.Value)
	result.Source = src.Name()
	result.Report = report

	if failed := result.Failed(); failed > 0 {
		zerolog.Ctx(ctx).Warn().Int("failed", failed).Int("groups", len(result.Groups)).Msg("Some groups could not be summarized")
	}
	finishRun(ctx, mgr, boxPlotRecords(result), report)
	return result, nil
}

// GetBarChartResults loads the bar chart dataset from src and lays out one bar per group and subgroup.
func GetBarChartResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.StoreManager) (schema.BarChartResult, error) {
	ds := cfg.BarChart
	s := load.Schema{Required: []string{ds.Group, ds.Subgroup}, Numeric: []string{ds.Value}}
	records, report, err := loadRecords(ctx, src, s)
	if err != nil {
		return schema.BarChartResult{}, err
	}

	result, err := BuildBarChart(records, ds.Group, ds.Subgroup, ds.Value, cfg.Palette)
	if err != nil {
		return schema.BarChartResult{}, err
	}
	result.Source = src.Name()
	result.Report = report

	ctx = beginRun(ctx, mgr, schema.BarChartChart, src.Name(), ds)
	if result.PaletteCycled {
		zerolog.Ctx(ctx).Warn().Int("subgroups", len(result.Subgroups)).Int("colors", len(cfg.Palette)).Msg("Palette reused colors")
	}
	finishRun(ctx, mgr, barChartRecords(result), report)
	return result, nil
}

// GetLineChartResults loads the line chart dataset from src and sorts it by date.
func GetLineChartResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.StoreManager) (schema.LineChartResult, error) {
	ds := cfg.Line
	s := load.Schema{Numeric: []string{ds.Value}, Dates: []string{ds.Date}}
	records, report, err := loadRecords(ctx, src, s)
	if err != nil {
		return schema.LineChartResult{}, err
	}

	ctx = beginRun(ctx, mgr, schema.LineChart, src.Name(), ds)
	result := BuildLineChart(records, ds.Date, ds.Value)
	result.Source = src.Name()
	result.Report = report

	finishRun(ctx, mgr, lineChartRecords(result), report)
	return result, nil
}

// loadRecords reads rows from src and coerces them with s.
func loadRecords(ctx context.Context, src contract.DataSource, s load.Schema) ([]load.Record, schema.BatchReport, error) {
	logger := zerolog.Ctx(ctx)
	rows, err := src.Rows(ctx, s.Columns())
	if err != nil {
		return nil, schema.BatchReport{}, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	records, report := load.Load(rows, s)
	logger.Debug().Str("source", src.Name()).Int("rows", report.Rows).Msg("Loaded dataset")
	for _, issue := range report.Issues {
		logger.Debug().Int("row", issue.Row).Str("field", issue.Field).Str("value", issue.Value).Str("kind", string(issue.Kind)).Msg("Field issue")
	}
	if !report.Clean() {
		logger.Warn().
			Str("source", src.Name()).
			Int("malformed_numbers", report.MalformedNumbers).
			Int("unparseable_dates", report.UnparseableDates).
			Msg("Dataset has field issues")
	}
	return records, report, nil
}
