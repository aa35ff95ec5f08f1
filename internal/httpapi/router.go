// Package httpapi serves chart results and rendered charts over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires the API routes and middleware.
func NewRouter(app *App, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, Logger(logger))

	r.Get("/v1/healthz", app.Health)

	r.Get("/v1/boxplot", app.BoxPlot)
	r.Get("/v1/barplot", app.BarChart)
	r.Get("/v1/lineplot", app.LineChart)
	r.Post("/v1/summarize", app.Summarize)

	r.Get("/v1/charts/{kind}.{format}", app.Chart)

	return r
}
