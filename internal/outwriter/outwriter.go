// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBoxPlot prints box plot results using the configured output format.
func (ow *OutWriter) WriteBoxPlot(result schema.BoxPlotResult, cfg *contract.Config, duration time.Duration) error {
	return PrintBoxPlotResults(result, cfg, duration)
}

// WriteBarChart prints bar chart results using the configured output format.
func (ow *OutWriter) WriteBarChart(result schema.BarChartResult, cfg *contract.Config, duration time.Duration) error {
	return PrintBarChartResults(result, cfg, duration)
}

// WriteLineChart prints line chart results using the configured output format.
func (ow *OutWriter) WriteLineChart(result schema.LineChartResult, cfg *contract.Config, duration time.Duration) error {
	return PrintLineChartResults(result, cfg, duration)
}

// GetMaxTableLabelWidth calculates the maximum width for category labels in table output
// based on terminal width and the columns of the chart kind.
func GetMaxTableLabelWidth(cfg *contract.Config, kind schema.ChartKind) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns with table formatting
	var reserved, labels int
	switch kind {
	case schema.BoxPlotChart:
		reserved, labels = 90, 1 // Count + Excluded + five numbers + IQR + Status
	case schema.BarChartChart:
		reserved, labels = 45, 2 // Value + Dups + Color + Status
	default:
		reserved, labels = 45, 1 // Index + Date + Value + Status
	}
	return max((termWidth-reserved)/labels, 10)
}
