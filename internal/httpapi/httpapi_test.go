package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/render"
	"github.com/huangsam/likeplot/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := &contract.Config{
		BoxPlot: contract.DatasetConfig{
			File:  writeFile(t, dir, "socialMedia.csv", "AgeGroup,Likes\n18-25,10\n18-25,20\n26-35,30\n"),
			Group: schema.DefaultAgeGroupField,
			Value: schema.DefaultLikesField,
		},
		BarChart: contract.DatasetConfig{
			File:     writeFile(t, dir, "socialMediaAvg.csv", "Platform,PostType,AvgLikes\nInstagram,Image,120\nTwitter,Video,80\n"),
			Group:    schema.DefaultPlatformField,
			Subgroup: schema.DefaultPostTypeField,
			Value:    schema.DefaultAvgLikesField,
		},
		Line: contract.DatasetConfig{
			File:  writeFile(t, dir, "socialMediaTime.csv", "Date,AvgLikes\n3/2/2021,20\nnot a date,5\n3/1/2021,10\n"),
			Date:  schema.DefaultDateField,
			Value: schema.DefaultAvgLikesField,
		},
		Palette: schema.DefaultPalette,
		Format:  schema.SVGFormat,
	}
	return NewRouter(NewApp(cfg, nil, render.NewChartSink()), zerolog.Nop())
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/v1/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBoxPlot(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/v1/boxplot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result schema.BoxPlotResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Groups, 2)
	assert.Equal(t, "18-25", result.Groups[0].Group)
	assert.Equal(t, 15.0, result.Groups[0].Summary.Median)
}

func TestBarChart(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/v1/barplot", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result schema.BarChartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"Image", "Video"}, result.Subgroups)
	assert.Equal(t, 2, result.Missing)
}

func TestLineChart(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/v1/lineplot", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result schema.LineChartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Points, 2)
	assert.Equal(t, 1, result.Unparseable)
	assert.Equal(t, 10.0, float64(result.Points[0].Value))
}

func TestSummarize(t *testing.T) {
	h := newTestRouter(t)

	t.Run("ok", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/v1/summarize", `{"values":[1,2,3,4,5,null]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp summarizeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 5, resp.Count)
		assert.Equal(t, schema.Summary{Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, IQR: 2}, resp.Summary)
	})

	t.Run("insufficient data", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/v1/summarize", `{"values":[]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient data")
	})

	t.Run("bad body", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/v1/summarize", `{"values":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChart(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/v1/charts/boxplot.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = serve(h, http.MethodGet, "/v1/charts/lineplot.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = serve(h, http.MethodGet, "/v1/charts/pie.svg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/v1/charts/boxplot.gif", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingFile(t *testing.T) {
	cfg := &contract.Config{BoxPlot: contract.DatasetConfig{File: filepath.Join(t.TempDir(), "nope.csv"), Group: "AgeGroup", Value: "Likes"}}
	h := NewRouter(NewApp(cfg, nil, render.NewChartSink()), zerolog.Nop())
	rec := serve(h, http.MethodGet, "/v1/boxplot", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(schema.ErrMissingColumn))
	assert.Equal(t, http.StatusNotFound, statusFor(schema.ErrUnknownChartKind))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
