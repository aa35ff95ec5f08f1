package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoxPlot() schema.BoxPlotResult {
	return schema.BoxPlotResult{
		Source:     "socialMedia.csv",
		GroupField: "AgeGroup",
		ValueField: "Likes",
		Groups: []schema.GroupSummary{
			{Group: "18-25", Count: 5, Summary: &schema.Summary{Min: 10, Q1: 20, Median: 30, Q3: 40, Max: 50, IQR: 20}},
			{Group: "26-35", Count: 0, Excluded: 1, Error: "insufficient data"},
		},
		YDomain: schema.Domain{Min: 0, Max: 50},
		Report:  schema.BatchReport{Rows: 6, MalformedNumbers: 1, Issues: []schema.FieldIssue{{Row: 6, Field: "Likes", Value: "abc", Kind: schema.MalformedNumberIssue}}},
	}
}

func sampleBarChart() schema.BarChartResult {
	return schema.BarChartResult{
		GroupField:    "Platform",
		SubgroupField: "PostType",
		ValueField:    "AvgLikes",
		Subgroups:     []string{"Image", "Video"},
		Legend:        []schema.ColorAssignment{{Category: "Image", Color: "#1f77b4"}, {Category: "Video", Color: "#ff7f0e"}},
		Groups: []schema.BarGroup{{
			Group: "Instagram",
			Bars: []schema.Bar{
				{Group: "Instagram", Subgroup: "Image", Value: 120.5, Present: true, Color: "#1f77b4"},
				{Group: "Instagram", Subgroup: "Video", Value: 0, Present: false, Color: "#ff7f0e"},
			},
		}},
		Missing: 1,
		YDomain: schema.Domain{Min: 0, Max: 130.14},
		Report:  schema.BatchReport{Rows: 1},
	}
}

func sampleLineChart() schema.LineChartResult {
	return schema.LineChartResult{
		DateField:  "Date",
		ValueField: "AvgLikes",
		Points: []schema.TimePoint{
			{Time: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), Value: 5, Raw: "3/1/2021 (Monday)"},
			{Time: time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC), Value: schema.Number(math.NaN()), Raw: "3/2/2021", Malformed: true},
		},
		Unparseable: 1,
		YDomain:     schema.Domain{Min: 0, Max: 5.25},
		Report:      schema.BatchReport{Rows: 3, MalformedNumbers: 1, UnparseableDates: 1},
	}
}

func TestWriteBoxPlotTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 160}
	var buf bytes.Buffer
	err := writeBoxPlotTable(&buf, sampleBoxPlot(), cfg, createFormatter(cfg.Precision), 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "18-25")
	assert.Contains(t, output, "30.00")
	assert.Contains(t, output, "20.00")
	assert.Contains(t, output, contract.FailedValue)
	assert.Contains(t, output, "(1 failed)")
	assert.Contains(t, output, "Loaded 6 rows (1 malformed numbers, 0 unparseable dates)")
	assert.Contains(t, output, `row 6 Likes: malformed number "abc"`)
	assert.Contains(t, output, "Completed in 100ms")
}

func TestWriteBoxPlotCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBoxPlotCSV(&buf, sampleBoxPlot(), createFormatter(1)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "group", records[0][0])
	assert.Equal(t, []string{"18-25", "5", "0", "10.0", "20.0", "30.0", "40.0", "50.0", "20.0", "OK", ""}, records[1])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, contract.FailedValue, records[2][9])
}

func TestWriteBarChartTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 1, Width: 120}
	var buf bytes.Buffer
	err := writeBarChartTable(&buf, sampleBarChart(), cfg, createFormatter(cfg.Precision), time.Second)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Instagram")
	assert.Contains(t, output, "120.5")
	assert.Contains(t, output, contract.MissingValue)
	assert.Contains(t, output, "1 groups x 2 subgroups (1 missing, 0 duplicates)")
	assert.NotContains(t, output, "Palette of")
}

func TestWriteBarChartTable_PaletteCycled(t *testing.T) {
	result := sampleBarChart()
	result.PaletteCycled = true
	result.Legend = append(result.Legend, schema.ColorAssignment{Category: "Link", Color: "#1f77b4"})

	cfg := &contract.Config{Output: schema.TextOut, Precision: 1, Width: 120}
	var buf bytes.Buffer
	require.NoError(t, writeBarChartTable(&buf, result, cfg, createFormatter(1), time.Second))
	assert.Contains(t, buf.String(), "Palette of 2 colors reused for 3 subgroups")
}

func TestWriteBarChartCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBarChartCSV(&buf, sampleBarChart(), createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Instagram", "Image", "120.50", "true", "false", "0", "#1f77b4", "OK"}, records[1])
	assert.Equal(t, []string{"Instagram", "Video", "0.00", "false", "false", "0", "#ff7f0e", "Missing"}, records[2])
}

func TestWriteLineChartTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 100}
	var buf bytes.Buffer
	err := writeLineChartTable(&buf, sampleLineChart(), cfg, createFormatter(cfg.Precision), time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "2021-03-01")
	assert.Contains(t, output, "5.00")
	assert.Contains(t, output, notAvailable)
	assert.Contains(t, output, contract.MalformedValue)
	assert.Contains(t, output, "(1 unparseable dates excluded)")
}

func TestWriteLineChartCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLineChartCSV(&buf, sampleLineChart(), createFormatter(0)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2021-03-01", "3/1/2021 (Monday)", "5", "false"}, records[1])
	assert.Equal(t, []string{"2021-03-02", "3/2/2021", "", "true"}, records[2])
}

func TestPrintResults_JSONFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("boxplot", func(t *testing.T) {
		path := filepath.Join(dir, "box.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, NewOutWriter().WriteBoxPlot(sampleBoxPlot(), cfg, 0))

		var decoded schema.BoxPlotResult
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Len(t, decoded.Groups, 2)
		assert.Nil(t, decoded.Groups[1].Summary)
	})

	t.Run("lineplot keeps NaN as null", func(t *testing.T) {
		path := filepath.Join(dir, "line.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, NewOutWriter().WriteLineChart(sampleLineChart(), cfg, 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"value": null`)
	})
}

func TestPrintResults_ParquetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	require.NoError(t, NewOutWriter().WriteBarChart(sampleBarChart(), cfg, 0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPrintResults_TableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.txt")
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: path, Precision: 2, Width: 120}
	require.NoError(t, PrintBoxPlotResults(sampleBoxPlot(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "18-25"))
}

func TestPrintResults_BadPath(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(t.TempDir(), "missing", "out.csv")}
	assert.Error(t, PrintLineChartResults(sampleLineChart(), cfg, 0))
}

func TestCreateFormatter(t *testing.T) {
	f := createFormatter(3)
	assert.Equal(t, "1.500", f(1.5))
	assert.Equal(t, notAvailable, f(math.NaN()))
	assert.Equal(t, notAvailable, f(math.Inf(1)))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "1,234,567", formatCount(1234567))
}

func TestGetMaxTableLabelWidth(t *testing.T) {
	cfg := &contract.Config{Width: 150}
	assert.Equal(t, 60, GetMaxTableLabelWidth(cfg, schema.BoxPlotChart))
	assert.Equal(t, 52, GetMaxTableLabelWidth(cfg, schema.BarChartChart))
	assert.Equal(t, 105, GetMaxTableLabelWidth(cfg, schema.LineChart))

	narrow := &contract.Config{Width: 40}
	assert.Equal(t, 10, GetMaxTableLabelWidth(narrow, schema.BoxPlotChart))
}

func TestWriteReportFooter_CapsIssues(t *testing.T) {
	report := schema.BatchReport{Rows: 10}
	for i := range 7 {
		report.Add(schema.FieldIssue{Row: i + 1, Field: "Likes", Value: "x", Kind: schema.MalformedNumberIssue})
	}
	var buf bytes.Buffer
	require.NoError(t, writeReportFooter(&buf, report, &contract.Config{}, time.Second))
	assert.Contains(t, buf.String(), "... and 2 more")
	assert.Equal(t, 5, strings.Count(buf.String(), "malformed number \"x\""))
}
