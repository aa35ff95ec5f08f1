// Package parquet writes likeplot chart results and run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/likeplot/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single tracked pipeline run.
// This struct maps to the likeplot_runs database table.
type Run struct {
	RunID int64 `parquet:"run_id,snappy"`

	// Kind is the chart kind (boxplot, barplot, lineplot)
	Kind string `parquet:"kind,snappy"`

	// Source is the dataset the run read, usually a CSV path
	Source string `parquet:"source,snappy"`

	StartTime    time.Time  `parquet:"start_time,snappy"`
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs   *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalRows    int32      `parquet:"total_rows,snappy"`
	IssueCount   int32      `parquet:"issue_count,snappy"`
	ConfigParams *string    `parquet:"config_params,optional,snappy"`
}

// GroupResult represents one computed group, bar or point of a run.
// This struct maps to the likeplot_group_results database table.
type GroupResult struct {
	RunID    int64    `parquet:"run_id,snappy"`
	Seq      int32    `parquet:"seq,snappy"`
	Kind     string   `parquet:"kind,snappy"`
	Label    string   `parquet:"label,snappy"`
	Sublabel *string  `parquet:"sublabel,optional,snappy"`
	Value    *float64 `parquet:"value,optional,snappy"`
	Min      *float64 `parquet:"min_value,optional,snappy"`
	Q1       *float64 `parquet:"q1,optional,snappy"`
	Median   *float64 `parquet:"median,optional,snappy"`
	Q3       *float64 `parquet:"q3,optional,snappy"`
	Max      *float64 `parquet:"max_value,optional,snappy"`
	Count    int32    `parquet:"row_count,snappy"`
	Excluded int32    `parquet:"excluded,snappy"`
	Note     *string  `parquet:"note,optional,snappy"`
}

// BoxPlotRow is one group of a box plot result. Quartiles are null when the group failed.
type BoxPlotRow struct {
	Group    string   `parquet:"group,snappy"`
	Count    int32    `parquet:"count,snappy"`
	Excluded int32    `parquet:"excluded,snappy"`
	Min      *float64 `parquet:"min,optional,snappy"`
	Q1       *float64 `parquet:"q1,optional,snappy"`
	Median   *float64 `parquet:"median,optional,snappy"`
	Q3       *float64 `parquet:"q3,optional,snappy"`
	Max      *float64 `parquet:"max,optional,snappy"`
	IQR      *float64 `parquet:"iqr,optional,snappy"`
	Error    *string  `parquet:"error,optional,snappy"`
}

// BarRow is one bar of a bar chart result.
type BarRow struct {
	Group      string   `parquet:"group,snappy"`
	Subgroup   string   `parquet:"subgroup,snappy"`
	Value      *float64 `parquet:"value,optional,snappy"`
	Present    bool     `parquet:"present,snappy"`
	Malformed  bool     `parquet:"malformed,snappy"`
	Duplicates int32    `parquet:"duplicates,snappy"`
	Color      string   `parquet:"color,snappy"`
}

// LinePointRow is one point of a line chart result.
type LinePointRow struct {
	Time      time.Time `parquet:"time,snappy"`
	Raw       string    `parquet:"raw,snappy"`
	Value     *float64  `parquet:"value,optional,snappy"`
	Malformed bool      `parquet:"malformed,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath.
// The schema is derived from the struct tags of T.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteRunsParquet writes tracked runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteGroupResultsParquet writes tracked group results to a Parquet file.
func WriteGroupResultsParquet(data []GroupResult, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteBoxPlotParquet writes the groups of a box plot result to a Parquet file.
func WriteBoxPlotParquet(result schema.BoxPlotResult, outputPath string) error {
	return writeRows(ConvertBoxPlot(result), outputPath)
}

// WriteBarChartParquet writes the bars of a bar chart result to a Parquet file.
func WriteBarChartParquet(result schema.BarChartResult, outputPath string) error {
	return writeRows(ConvertBarChart(result), outputPath)
}

// WriteLineChartParquet writes the points of a line chart result to a Parquet file.
func WriteLineChartParquet(result schema.LineChartResult, outputPath string) error {
	return writeRows(ConvertLineChart(result), outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:        r.RunID,
			Kind:         r.Kind,
			Source:       r.Source,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			DurationMs:   r.DurationMs,
			TotalRows:    r.TotalRows,
			IssueCount:   r.IssueCount,
			ConfigParams: r.ConfigParams,
		}
	}
	return result
}

// ConvertGroupResultRecords converts schema.GroupResultRecord to GroupResult for Parquet export.
func ConvertGroupResultRecords(records []schema.GroupResultRecord) []GroupResult {
	result := make([]GroupResult, len(records))
	for i, r := range records {
		result[i] = GroupResult(r)
	}
	return result
}

// ConvertBoxPlot flattens a box plot result into rows.
func ConvertBoxPlot(result schema.BoxPlotResult) []BoxPlotRow {
	rows := make([]BoxPlotRow, len(result.Groups))
	for i, g := range result.Groups {
		row := BoxPlotRow{Group: g.Group, Count: int32(g.Count), Excluded: int32(g.Excluded)}
		if s := g.Summary; s != nil {
			row.Min, row.Q1, row.Median = &s.Min, &s.Q1, &s.Median
			row.Q3, row.Max, row.IQR = &s.Q3, &s.Max, &s.IQR
		} else {
			msg := g.Error
			row.Error = &msg
		}
		rows[i] = row
	}
	return rows
}

// ConvertBarChart flattens a bar chart result into rows, group by group.
func ConvertBarChart(result schema.BarChartResult) []BarRow {
	var rows []BarRow
	for _, g := range result.Groups {
		for _, b := range g.Bars {
			rows = append(rows, BarRow{
				Group:      b.Group,
				Subgroup:   b.Subgroup,
				Value:      numberPtr(b.Value),
				Present:    b.Present,
				Malformed:  b.Malformed,
				Duplicates: int32(b.Duplicates),
				Color:      b.Color,
			})
		}
	}
	return rows
}

// ConvertLineChart flattens a line chart result into rows in time order.
func ConvertLineChart(result schema.LineChartResult) []LinePointRow {
	rows := make([]LinePointRow, len(result.Points))
	for i, p := range result.Points {
		rows[i] = LinePointRow{Time: p.Time, Raw: p.Raw, Value: numberPtr(p.Value), Malformed: p.Malformed}
	}
	return rows
}

// numberPtr returns nil for NaN and infinities so they land as Parquet nulls.
func numberPtr(n schema.Number) *float64 {
	if !n.IsValid() {
		return nil
	}
	v := float64(n)
	return &v
}
