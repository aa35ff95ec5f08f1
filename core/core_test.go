package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/runstore"
	"github.com/huangsam/likeplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed rows without touching the file system.
type fakeSource struct {
	name string
	rows []schema.Row
	err  error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Rows(_ context.Context, required []string) ([]schema.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, col := range required {
		if len(f.rows) > 0 {
			if _, ok := f.rows[0][col]; !ok {
				return nil, fmt.Errorf("%w: %s", schema.ErrMissingColumn, col)
			}
		}
	}
	return f.rows, nil
}

func testConfig() *contract.Config {
	return &contract.Config{
		BoxPlot:  contract.DatasetConfig{File: schema.DefaultBoxPlotFile, Group: "AgeGroup", Value: "Likes"},
		BarChart: contract.DatasetConfig{File: schema.DefaultBarChartFile, Group: "Platform", Subgroup: "PostType", Value: "AvgLikes"},
		Line:     contract.DatasetConfig{File: schema.DefaultLineFile, Date: "Date", Value: "AvgLikes"},
		Output:   schema.TextOut,
		Palette:  []string{"#1f77b4", "#ff7f0e"},
		Format:   schema.SVGFormat,
	}
}

var boxRows = []schema.Row{
	{"AgeGroup": "18-25", "Likes": "100"},
	{"AgeGroup": "18-25", "Likes": "200"},
	{"AgeGroup": "26-35", "Likes": "abc"},
	{"AgeGroup": "18-25", "Likes": "300"},
}

func TestGetBoxPlotResults(t *testing.T) {
	result, err := GetBoxPlotResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: boxRows}, nil)
	require.NoError(t, err)

	assert.Equal(t, "mem", result.Source)
	require.Len(t, result.Groups, 2)

	first := result.Groups[0]
	assert.Equal(t, "18-25", first.Group)
	require.NotNil(t, first.Summary)
	assert.Equal(t, schema.Summary{Min: 100, Q1: 150, Median: 200, Q3: 250, Max: 300, IQR: 100}, *first.Summary)

	// A group with no usable values fails alone
	second := result.Groups[1]
	assert.Nil(t, second.Summary)
	assert.Equal(t, 1, second.Excluded)
	assert.ErrorIs(t, second.Err, schema.ErrInsufficientData)
	assert.Equal(t, 1, result.Failed())

	assert.Equal(t, schema.Domain{Min: 0, Max: 300}, result.YDomain)
	assert.Equal(t, 1, result.Report.MalformedNumbers)
}

func TestBoxPlotDomain_Negative(t *testing.T) {
	groups := []schema.GroupSummary{
		{Summary: &schema.Summary{Min: -5, Max: 10}},
		{Error: "insufficient data"},
		{Summary: &schema.Summary{Min: 2, Max: 40}},
	}
	assert.Equal(t, schema.Domain{Min: -5, Max: 40}, boxPlotDomain(groups))
	assert.Equal(t, schema.Domain{}, boxPlotDomain(nil))
}

var barRows = []schema.Row{
	{"Platform": "Instagram", "PostType": "Image", "AvgLikes": "100"},
	{"Platform": "Instagram", "PostType": "Video", "AvgLikes": "50"},
	{"Platform": "Twitter", "PostType": "Image", "AvgLikes": "10"},
	{"Platform": "Twitter", "PostType": "Image", "AvgLikes": "20"},
	{"Platform": "Twitter", "PostType": "Link", "AvgLikes": "5"},
}

func TestGetBarChartResults(t *testing.T) {
	result, err := GetBarChartResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: barRows}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Image", "Video", "Link"}, result.Subgroups)
	require.Len(t, result.Groups, 2)
	for _, g := range result.Groups {
		assert.Len(t, g.Bars, 3, "every group has a bar per subgroup")
	}

	insta := result.Groups[0].Bars
	assert.False(t, insta[2].Present)
	assert.Equal(t, schema.Number(0), insta[2].Value)

	twitter := result.Groups[1].Bars
	assert.Equal(t, schema.Number(20), twitter[0].Value, "last duplicate wins")
	assert.Equal(t, 1, twitter[0].Duplicates)
	assert.False(t, twitter[1].Present)

	assert.Equal(t, 2, result.Missing)
	assert.Equal(t, 1, result.Duplicates)
	assert.True(t, result.PaletteCycled)
	assert.Equal(t, insta[0].Color, insta[2].Color, "third subgroup reuses the first color")
	assert.InDelta(t, 108.0, result.YDomain.Max, 1e-9)
}

func TestGetBarChartResults_EmptyPalette(t *testing.T) {
	cfg := testConfig()
	cfg.Palette = nil
	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetRunStore").Return(store).Maybe()

	_, err := GetBarChartResults(context.Background(), cfg, fakeSource{name: "mem", rows: barRows}, mgr)
	assert.ErrorIs(t, err, schema.ErrEmptyPalette)
	store.AssertNotCalled(t, "BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetLineChartResults(t *testing.T) {
	rows := []schema.Row{
		{"Date": "3/2/2024 (Saturday)", "AvgLikes": "20"},
		{"Date": "someday", "AvgLikes": "1"},
		{"Date": "3/1/2024 (Friday)", "AvgLikes": "n/a"},
		{"Date": "3/3/2024 (Sunday)", "AvgLikes": "40"},
	}
	result, err := GetLineChartResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: rows}, nil)
	require.NoError(t, err)

	require.Len(t, result.Points, 3)
	assert.Equal(t, "3/1/2024 (Friday)", result.Points[0].Raw)
	assert.True(t, result.Points[0].Malformed)
	assert.Equal(t, "3/3/2024 (Sunday)", result.Points[2].Raw)
	assert.Equal(t, 1, result.Unparseable)
	assert.Equal(t, 1, result.Malformed)
	assert.InDelta(t, 42.0, result.YDomain.Max, 1e-9)
}

func TestGetResults_SourceErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := GetLineChartResults(context.Background(), testConfig(), fakeSource{name: "mem", err: boom}, nil)
	assert.ErrorIs(t, err, boom)

	_, err = GetBoxPlotResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: []schema.Row{{"Age": "1"}}}, nil)
	assert.ErrorIs(t, err, schema.ErrMissingColumn)
}

func TestGetBoxPlotResults_TracksRun(t *testing.T) {
	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetRunStore").Return(store)

	store.On("BeginRun", schema.BoxPlotChart, "mem", mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordGroupResults", int64(7), mock.MatchedBy(func(recs []schema.GroupResultRecord) bool {
		return len(recs) == 2 && recs[0].RunID == 7 && recs[0].Median != nil && recs[1].Note != nil
	})).Return(nil)
	store.On("EndRun", int64(7), mock.Anything, 4, 1).Return(nil)

	_, err := GetBoxPlotResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: boxRows}, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetLineChartResults_TrackingFailureIsIgnored(t *testing.T) {
	store := &runstore.MockRunStore{}
	mgr := &runstore.MockStoreManager{}
	mgr.On("GetRunStore").Return(store)
	store.On("BeginRun", schema.LineChart, "mem", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	rows := []schema.Row{{"Date": "3/1/2024", "AvgLikes": "1"}}
	result, err := GetLineChartResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: rows}, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Points, 1)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlattenRecords(t *testing.T) {
	bar, err := BuildBarChart(nil, "g", "s", "v", []string{"#000"})
	require.NoError(t, err)
	assert.Empty(t, barChartRecords(bar))

	result, err := GetBarChartResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: barRows}, nil)
	require.NoError(t, err)
	recs := barChartRecords(result)
	require.Len(t, recs, 6)
	assert.Equal(t, int32(5), recs[5].Seq)
	assert.Equal(t, contract.MissingValue, *recs[2].Note)
	assert.Nil(t, recs[2].Value, "missing bars store no value")
	assert.Equal(t, int32(2), recs[3].Count, "duplicates are counted")

	line, err := GetLineChartResults(context.Background(), testConfig(), fakeSource{name: "mem", rows: []schema.Row{
		{"Date": "3/1/2024", "AvgLikes": "oops"},
	}}, nil)
	require.NoError(t, err)
	lrecs := lineChartRecords(line)
	require.Len(t, lrecs, 1)
	assert.Equal(t, "2024-03-01", lrecs[0].Label)
	assert.Equal(t, contract.MalformedValue, *lrecs[0].Note)
}

func TestBarChartRecords_ZeroAndMissing(t *testing.T) {
	result := schema.BarChartResult{Groups: []schema.BarGroup{{
		Group: "Twitter",
		Bars: []schema.Bar{
			{Group: "Twitter", Subgroup: "Image", Value: 0, Present: true},
			{Group: "Twitter", Subgroup: "Video"},
		},
	}}}
	recs := barChartRecords(result)
	require.Len(t, recs, 2)
	require.NotNil(t, recs[0].Value, "a real zero bar keeps its value")
	assert.Equal(t, 0.0, *recs[0].Value)
	assert.Nil(t, recs[0].Note)
	assert.Nil(t, recs[1].Value)
	assert.Equal(t, contract.MissingValue, *recs[1].Note)
	assert.Equal(t, int32(0), recs[1].Count)
}

func TestFieldParams(t *testing.T) {
	params := fieldParams(contract.DatasetConfig{Group: "Platform", Subgroup: "PostType", Value: "AvgLikes"})
	assert.Equal(t, map[string]string{"group": "Platform", "subgroup": "PostType", "value": "AvgLikes"}, params)
}

// fakeSink writes a marker per chart and can fail one kind.
type fakeSink struct {
	failBar bool
}

func (fakeSink) RenderBoxPlot(w io.Writer, result schema.BoxPlotResult, _ contract.ChartConfig) error {
	_, err := fmt.Fprintf(w, "box %d", len(result.Groups))
	return err
}

func (f fakeSink) RenderBarChart(w io.Writer, result schema.BarChartResult, _ contract.ChartConfig) error {
	if f.failBar {
		return schema.ErrNothingToRender
	}
	_, err := fmt.Fprintf(w, "bar %d", len(result.Groups))
	return err
}

func (fakeSink) RenderLineChart(w io.Writer, result schema.LineChartResult, _ contract.ChartConfig) error {
	_, err := fmt.Fprintf(w, "line %d", len(result.Points))
	return err
}

func writeDatasets(t *testing.T, cfg *contract.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg.BoxPlot.File = filepath.Join(dir, "box.csv")
	cfg.BarChart.File = filepath.Join(dir, "bar.csv")
	cfg.Line.File = filepath.Join(dir, "line.csv")
	cfg.OutDir = filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(cfg.BoxPlot.File, []byte("AgeGroup,Likes\n18-25,1\n26-35,2\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.BarChart.File, []byte("Platform,PostType,AvgLikes\nA,x,1\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.Line.File, []byte("Date,AvgLikes\n3/1/2024,1\n3/2/2024,2\n3/3/2024,3\n"), 0o644))
}

func TestExecuteRender(t *testing.T) {
	cfg := testConfig()
	writeDatasets(t, cfg)

	require.NoError(t, ExecuteRender(context.Background(), cfg, nil, fakeSink{}))

	for kind, want := range map[schema.ChartKind]string{
		schema.BoxPlotChart:  "box 2",
		schema.BarChartChart: "bar 1",
		schema.LineChart:     "line 3",
	} {
		data, err := os.ReadFile(filepath.Join(cfg.OutDir, string(kind)+".svg"))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestExecuteRender_PartialFailure(t *testing.T) {
	cfg := testConfig()
	writeDatasets(t, cfg)

	err := ExecuteRender(context.Background(), cfg, nil, fakeSink{failBar: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNothingToRender)

	assert.FileExists(t, filepath.Join(cfg.OutDir, string(schema.BoxPlotChart)+".svg"))
	assert.NoFileExists(t, filepath.Join(cfg.OutDir, string(schema.BarChartChart)+".svg"))
	assert.FileExists(t, filepath.Join(cfg.OutDir, string(schema.LineChart)+".svg"))
}

func TestSourceFor_UnknownKind(t *testing.T) {
	_, err := SourceFor(testConfig(), schema.ChartKind("pie"))
	assert.ErrorIs(t, err, schema.ErrUnknownChartKind)
}

func TestExecuteBoxPlot_CSVFile(t *testing.T) {
	cfg := testConfig()
	writeDatasets(t, cfg)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "box.csv")

	require.NoError(t, ExecuteBoxPlot(context.Background(), cfg, nil))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "group,count,excluded")
	assert.Contains(t, string(data), "18-25")
}
