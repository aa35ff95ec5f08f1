package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/likeplot/schema"
)

// Status label constants.
const (
	OKValue        = "OK"        // Group has a value
	MissingValue   = "Missing"   // Pair absent from the data
	MalformedValue = "Malformed" // Value could not be coerced
	FailedValue    = "Failed"    // Group could not be summarized
)

// Color variables for console output.
var (
	FailedColor    = color.New(color.FgRed, color.Bold)
	MalformedColor = color.New(color.FgMagenta, color.Bold)
	MissingColor   = color.New(color.FgYellow)
	OKColor        = color.New(color.FgCyan)
)

// GetPlainStatus returns the plain status label for a computed value.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainStatus(present, malformed bool, err string) string {
	switch {
	case err != "":
		return FailedValue
	case !present:
		return MissingValue
	case malformed:
		return MalformedValue
	default:
		return OKValue
	}
}

// GetColorStatus returns a colored status label for console output (table).
func GetColorStatus(present, malformed bool, err string) string {
	text := GetPlainStatus(present, malformed, err)

	switch text {
	case FailedValue:
		return FailedColor.Sprint(text)
	case MalformedValue:
		return MalformedColor.Sprint(text)
	case MissingValue:
		return MissingColor.Sprint(text)
	default:
		return OKColor.Sprint(text)
	}
}

// IssueLabel returns a short label for an issue kind, colored when requested.
func IssueLabel(kind schema.IssueKind, useColors bool) string {
	var text string
	var c *color.Color
	switch kind {
	case schema.MalformedNumberIssue:
		text, c = "malformed number", MalformedColor
	case schema.UnparseableDateIssue:
		text, c = "unparseable date", MissingColor
	default:
		text, c = string(kind), OKColor
	}
	if !useColors {
		return text
	}
	return c.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".likeplot_runs.db"
	}
	return filepath.Join(homeDir, ".likeplot_runs.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
