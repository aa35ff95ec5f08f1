// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"
	"time"

	"github.com/huangsam/likeplot/schema"
)

// DataSource supplies raw rows keyed by column name.
// This allows the pipelines to be tested without touching the file system.
type DataSource interface {
	// Name identifies the source in results and run history (usually a path).
	Name() string

	// Rows returns every data row. Required columns missing from the source
	// fail with schema.ErrMissingColumn.
	Rows(ctx context.Context, required []string) ([]schema.Row, error)
}

// RenderSink draws fully computed chart values. It never computes statistics.
type RenderSink interface {
	RenderBoxPlot(w io.Writer, result schema.BoxPlotResult, cfg ChartConfig) error
	RenderBarChart(w io.Writer, result schema.BarChartResult, cfg ChartConfig) error
	RenderLineChart(w io.Writer, result schema.LineChartResult, cfg ChartConfig) error
}

// StoreManager defines the interface for managing the run history store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking pipeline runs and their results.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID (0 when tracking is disabled)
	BeginRun(kind schema.ChartKind, source string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int, issueCount int) error

	// RecordGroupResults stores the per-group results of a run
	RecordGroupResults(runID int64, records []schema.GroupResultRecord) error

	// GetStatus returns status information about the store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every stored run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllGroupResults returns every stored group result ordered by run and sequence
	GetAllGroupResults() ([]schema.GroupResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
