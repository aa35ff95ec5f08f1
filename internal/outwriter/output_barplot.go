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

// PrintBarChartResults outputs the grouped bar values, dispatching based on the output format configured.
func PrintBarChartResults(result schema.BarChartResult, cfg *contract.Config, duration time.Duration) error {
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
			return writeBarChartCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBarChartParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBarChartTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeBarChartTable prints one row per bar, grouped by outer category.
func writeBarChartTable(w io.Writer, result schema.BarChartResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Subgroup", "Value", "Dups", "Color", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableLabelWidth(cfg, schema.BarChartChart)
	var data [][]string
	for _, g := range result.Groups {
		for _, b := range g.Bars {
			data = append(data, []string{
				contract.TruncateLabel(b.Group, labelWidth),
				contract.TruncateLabel(b.Subgroup, labelWidth),
				fmtFloat(float64(b.Value)),
				formatCount(b.Duplicates),
				b.Color,
				statusLabel(cfg, b.Present, b.Malformed, ""),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d groups x %d subgroups (%d missing, %d duplicates), y domain [%s, %s]\n",
		len(result.Groups), len(result.Subgroups), result.Missing, result.Duplicates,
		fmtFloat(result.YDomain.Min), fmtFloat(result.YDomain.Max)); err != nil {
		return err
	}
	if result.PaletteCycled {
		if _, err := fmt.Fprintf(w, "Palette of %d colors reused for %d subgroups\n", len(uniqueColors(result.Legend)), len(result.Legend)); err != nil {
			return err
		}
	}
	return writeReportFooter(w, result.Report, cfg, duration)
}

// writeBarChartCSV writes one line per bar including missing pairs.
func writeBarChartCSV(w io.Writer, result schema.BarChartResult, fmtFloat func(float64) string) error {
	header := []string{"group", "subgroup", "value", "present", "malformed", "duplicates", "color", "status"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range result.Groups {
			for _, b := range g.Bars {
				value := ""
				if b.Value.IsValid() {
					value = fmtFloat(float64(b.Value))
				}
				rec := []string{
					b.Group,
					b.Subgroup,
					value,
					strconv.FormatBool(b.Present),
					strconv.FormatBool(b.Malformed),
					strconv.Itoa(b.Duplicates),
					b.Color,
					contract.GetPlainStatus(b.Present, b.Malformed, ""),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// uniqueColors returns the distinct colors of a legend.
func uniqueColors(legend []schema.ColorAssignment) map[string]struct{} {
	seen := make(map[string]struct{}, len(legend))
	for _, a := range legend {
		seen[a.Color] = struct{}{}
	}
	return seen
}
