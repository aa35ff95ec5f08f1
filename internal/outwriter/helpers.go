package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// notAvailable is printed for values that could not be computed.
const notAvailable = "n/a"

// countPrinter formats counts with thousands separators.
var countPrinter = message.NewPrinter(language.English)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and then the rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter returns a float formatter honoring precision.
// NaN and infinities print as notAvailable.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return notAvailable
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatCount formats an integer with thousands separators.
func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// statusLabel returns the plain or colored status of a value depending on cfg.
func statusLabel(cfg *contract.Config, present, malformed bool, errMsg string) string {
	if cfg.UseColors {
		return contract.GetColorStatus(present, malformed, errMsg)
	}
	return contract.GetPlainStatus(present, malformed, errMsg)
}

// maxListedIssues caps how many field issues the table footer lists.
const maxListedIssues = 5

// writeReportFooter prints the load report and timing below a table.
func writeReportFooter(w io.Writer, report schema.BatchReport, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Loaded %s rows (%s malformed numbers, %s unparseable dates)\n",
		formatCount(report.Rows), formatCount(report.MalformedNumbers), formatCount(report.UnparseableDates)); err != nil {
		return err
	}
	for i, issue := range report.Issues {
		if i == maxListedIssues {
			if _, err := fmt.Fprintf(w, "  ... and %s more\n", formatCount(len(report.Issues)-maxListedIssues)); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(w, "  row %d %s: %s %q\n", issue.Row, issue.Field, contract.IssueLabel(issue.Kind, cfg.UseColors), issue.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Completed in %v\n", duration.Round(time.Microsecond))
	return err
}
