package parquet

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/likeplot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readRows reads every row of a Parquet file written by writeRows.
func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:    "run",
			schema:  parquet.SchemaOf(new(Run)),
			columns: []string{"run_id", "kind", "source", "start_time", "end_time", "run_duration_ms", "total_rows", "issue_count", "config_params"},
		},
		{
			name:    "group result",
			schema:  parquet.SchemaOf(new(GroupResult)),
			columns: []string{"run_id", "seq", "kind", "label", "sublabel", "value", "min_value", "q1", "median", "q3", "max_value", "row_count", "excluded", "note"},
		},
		{
			name:    "box plot",
			schema:  parquet.SchemaOf(new(BoxPlotRow)),
			columns: []string{"group", "count", "excluded", "min", "q1", "median", "q3", "max", "iqr", "error"},
		},
		{
			name:    "bar",
			schema:  parquet.SchemaOf(new(BarRow)),
			columns: []string{"group", "subgroup", "value", "present", "malformed", "duplicates", "color"},
		},
		{
			name:    "line point",
			schema:  parquet.SchemaOf(new(LinePointRow)),
			columns: []string{"time", "raw", "value", "malformed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	end := time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC)
	duration := int32(1000)
	params := `{"kind":"boxplot"}`
	records := []schema.RunRecord{
		{RunID: 1, Kind: "boxplot", Source: "socialMedia.csv", StartTime: end.Add(-time.Second), EndTime: &end, DurationMs: &duration, TotalRows: 12, IssueCount: 1, ConfigParams: &params},
		{RunID: 2, Kind: "lineplot", Source: "socialMediaTime.csv", StartTime: end},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	got := readRows[Run](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, "socialMedia.csv", got[0].Source)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Microsecond)
	require.NotNil(t, got[0].DurationMs)
	assert.Equal(t, int32(1000), *got[0].DurationMs)
	assert.Equal(t, params, *got[0].ConfigParams)

	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].DurationMs)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteGroupResultsParquet(t *testing.T) {
	v := 42.5
	sub := "Image"
	records := []schema.GroupResultRecord{
		{RunID: 3, Seq: 0, Kind: "barplot", Label: "Instagram", Sublabel: &sub, Value: &v, Count: 1},
	}
	path := filepath.Join(t.TempDir(), "groups.parquet")
	require.NoError(t, WriteGroupResultsParquet(ConvertGroupResultRecords(records), path))

	got := readRows[GroupResult](t, path)
	require.Len(t, got, 1)
	assert.Equal(t, "Instagram", got[0].Label)
	assert.Equal(t, "Image", *got[0].Sublabel)
	assert.InDelta(t, 42.5, *got[0].Value, 1e-9)
	assert.Nil(t, got[0].Q1)
}

func TestWriteBoxPlotParquet(t *testing.T) {
	result := schema.BoxPlotResult{Groups: []schema.GroupSummary{
		{Group: "18-25", Count: 4, Summary: &schema.Summary{Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, IQR: 2}},
		{Group: "26-35", Count: 1, Excluded: 1, Error: "insufficient data"},
	}}
	path := filepath.Join(t.TempDir(), "box.parquet")
	require.NoError(t, WriteBoxPlotParquet(result, path))

	got := readRows[BoxPlotRow](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, *got[0].Median)
	assert.Nil(t, got[0].Error)
	assert.Nil(t, got[1].Median)
	assert.Equal(t, "insufficient data", *got[1].Error)
	assert.Equal(t, int32(1), got[1].Excluded)
}

func TestWriteBarChartParquet(t *testing.T) {
	result := schema.BarChartResult{Groups: []schema.BarGroup{
		{Group: "Twitter", Bars: []schema.Bar{
			{Group: "Twitter", Subgroup: "Image", Value: 10, Present: true, Color: "#1f77b4"},
			{Group: "Twitter", Subgroup: "Video", Color: "#ff7f0e"},
			{Group: "Twitter", Subgroup: "Link", Value: schema.Number(math.NaN()), Present: true, Malformed: true, Color: "#2ca02c"},
		}},
	}}
	path := filepath.Join(t.TempDir(), "bar.parquet")
	require.NoError(t, WriteBarChartParquet(result, path))

	got := readRows[BarRow](t, path)
	require.Len(t, got, 3)
	assert.Equal(t, 10.0, *got[0].Value)
	assert.False(t, got[1].Present)
	assert.Equal(t, 0.0, *got[1].Value, "missing pairs have zero height")
	assert.Nil(t, got[2].Value, "malformed values are null")
	assert.True(t, got[2].Malformed)
}

func TestWriteLineChartParquet(t *testing.T) {
	day := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	result := schema.LineChartResult{Points: []schema.TimePoint{
		{Time: day, Value: 5, Raw: "3/1/2021"},
		{Time: day.AddDate(0, 0, 4), Value: 7, Raw: "3/5/2021 (note)"},
	}}
	path := filepath.Join(t.TempDir(), "line.parquet")
	require.NoError(t, WriteLineChartParquet(result, path))

	got := readRows[LinePointRow](t, path)
	require.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(day))
	assert.Equal(t, "3/5/2021 (note)", got[1].Raw)
}

func TestWriteRunsParquet_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Empty(t, readRows[Run](t, path))
}

func TestWriteRunsParquet_BadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}
