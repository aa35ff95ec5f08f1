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

// PrintBoxPlotResults outputs the box plot statistics, dispatching based on the output format configured.
func PrintBoxPlotResults(result schema.BoxPlotResult, cfg *contract.Config, duration time.Duration) error {
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
			return writeBoxPlotCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBoxPlotParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBoxPlotTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeBoxPlotTable generates and writes the human-readable table.
func writeBoxPlotTable(w io.Writer, result schema.BoxPlotResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Count", "Excluded", "Min", "Q1", "Median", "Q3", "Max", "IQR", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, schema.BoxPlotChart)
	data := make([][]string, 0, len(result.Groups))
	for _, g := range result.Groups {
		row := []string{
			contract.TruncateLabel(g.Group, labelWidth),
			formatCount(g.Count),
			formatCount(g.Excluded),
		}
		if s := g.Summary; s != nil {
			row = append(row, fmtFloat(s.Min), fmtFloat(s.Q1), fmtFloat(s.Median), fmtFloat(s.Q3), fmtFloat(s.Max), fmtFloat(s.IQR))
		} else {
			row = append(row, "-", "-", "-", "-", "-", "-")
		}
		row = append(row, statusLabel(cfg, true, false, g.Error))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d groups of %s by %s (%d failed), y domain [%s, %s]\n",
		len(result.Groups), result.ValueField, result.GroupField, result.Failed(),
		fmtFloat(result.YDomain.Min), fmtFloat(result.YDomain.Max)); err != nil {
		return err
	}
	return writeReportFooter(w, result.Report, cfg, duration)
}

// writeBoxPlotCSV writes one line per group. Failed groups have empty statistics.
func writeBoxPlotCSV(w io.Writer, result schema.BoxPlotResult, fmtFloat func(float64) string) error {
	header := []string{"group", "count", "excluded", "min", "q1", "median", "q3", "max", "iqr", "status", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range result.Groups {
			rec := []string{g.Group, strconv.Itoa(g.Count), strconv.Itoa(g.Excluded)}
			if s := g.Summary; s != nil {
				rec = append(rec, fmtFloat(s.Min), fmtFloat(s.Q1), fmtFloat(s.Median), fmtFloat(s.Q3), fmtFloat(s.Max), fmtFloat(s.IQR))
			} else {
				rec = append(rec, "", "", "", "", "", "")
			}
			rec = append(rec, contract.GetPlainStatus(true, false, g.Error), g.Error)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
