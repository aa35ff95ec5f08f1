package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huangsam/likeplot/core"
	"github.com/huangsam/likeplot/core/algo"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
)

// maxBodyBytes caps request bodies of POST endpoints.
const maxBodyBytes = 1 << 20

// App holds what the handlers share. Config is read only after startup.
type App struct {
	cfg  *contract.Config
	mgr  contract.StoreManager
	sink contract.RenderSink
}

// NewApp creates the handler container.
func NewApp(cfg *contract.Config, mgr contract.StoreManager, sink contract.RenderSink) *App {
	return &App{cfg: cfg, mgr: mgr, sink: sink}
}

type errorResponse struct {
	Error string `json:"error"`
}

type summarizeRequest struct {
	Values []schema.Number `json:"values"`
}

type summarizeResponse struct {
	Count   int            `json:"count"`
	Summary schema.Summary `json:"summary"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) fail(w http.ResponseWriter, err error) {
	a.json(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrUnknownChartKind), errors.Is(err, schema.ErrUnsupportedFormat):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrInsufficientData),
		errors.Is(err, schema.ErrMissingColumn),
		errors.Is(err, schema.ErrNothingToRender),
		errors.Is(err, schema.ErrEmptyPalette):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BoxPlot returns the box plot statistics of the configured dataset.
func (a *App) BoxPlot(w http.ResponseWriter, r *http.Request) {
	src, err := core.SourceFor(a.cfg, schema.BoxPlotChart)
	if err != nil {
		a.fail(w, err)
		return
	}
	result, err := core.GetBoxPlotResults(r.Context(), a.cfg, src, a.mgr)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// BarChart returns the grouped bar values of the configured dataset.
func (a *App) BarChart(w http.ResponseWriter, r *http.Request) {
	src, err := core.SourceFor(a.cfg, schema.BarChartChart)
	if err != nil {
		a.fail(w, err)
		return
	}
	result, err := core.GetBarChartResults(r.Context(), a.cfg, src, a.mgr)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// LineChart returns the normalized time series of the configured dataset.
func (a *App) LineChart(w http.ResponseWriter, r *http.Request) {
	src, err := core.SourceFor(a.cfg, schema.LineChart)
	if err != nil {
		a.fail(w, err)
		return
	}
	result, err := core.GetLineChartResults(r.Context(), a.cfg, src, a.mgr)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// Summarize computes the five-number summary of the posted values.
// Null entries are skipped like malformed numbers.
func (a *App) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	values := make([]float64, 0, len(req.Values))
	for _, v := range req.Values {
		if v.IsValid() {
			values = append(values, float64(v))
		}
	}
	summary, err := algo.Summarize(values)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, summarizeResponse{Count: len(values), Summary: summary})
}

// Chart renders one chart as SVG or PNG.
func (a *App) Chart(w http.ResponseWriter, r *http.Request) {
	kind := schema.ChartKind(chi.URLParam(r, "kind"))
	format := schema.ImageFormat(chi.URLParam(r, "format"))
	if _, ok := schema.ValidImageFormats[format]; !ok {
		a.fail(w, schema.ErrUnsupportedFormat)
		return
	}

	cfg := a.cfg.Clone()
	cfg.Format = format

	var buf bytes.Buffer
	if err := core.RenderChart(r.Context(), cfg, a.mgr, a.sink, kind, &buf); err != nil {
		a.fail(w, err)
		return
	}

	contentType := "image/svg+xml"
	if format == schema.PNGFormat {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
