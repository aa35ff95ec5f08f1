package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/parquet"
	"github.com/huangsam/likeplot/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// DateFormat is how normalized dates are printed.
const DateFormat = "2006-01-02"

// PrintLineChartResults outputs the normalized time series, dispatching based on the output format configured.
func PrintLineChartResults(result schema.LineChartResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLineChartCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteLineChartParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLineChartTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeLineChartTable prints the points in time order.
func writeLineChartTable(w io.Writer, result schema.LineChartResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Date", "Raw", "Value", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, schema.LineChart)
	data := make([][]string, 0, len(result.Points))
	for i, p := range result.Points {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.Time.Format(DateFormat),
			contract.TruncateLabel(p.Raw, labelWidth),
			fmtFloat(float64(p.Value)),
			statusLabel(cfg, true, p.Malformed, ""),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d points of %s over %s (%d unparseable dates excluded), y domain [%s, %s]\n",
		len(result.Points), result.ValueField, result.DateField, result.Unparseable,
		fmtFloat(result.YDomain.Min), fmtFloat(result.YDomain.Max)); err != nil {
		return err
	}
	return writeReportFooter(w, result.Report, cfg, duration)
}

// writeLineChartCSV writes one line per kept point.
func writeLineChartCSV(w io.Writer, result schema.LineChartResult, fmtFloat func(float64) string) error {
	header := []string{"date", "raw", "value", "malformed"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			value := ""
			if p.Value.IsValid() {
				value = fmtFloat(float64(p.Value))
			}
			rec := []string{p.Time.Format(DateFormat), p.Raw, value, strconv.FormatBool(p.Malformed)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
