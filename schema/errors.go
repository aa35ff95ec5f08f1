package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the loader, the pipelines and the outer layers.
var (
	ErrMalformedNumber   = errors.New("malformed number")
	ErrUnparseableDate   = errors.New("unparseable date")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrEmptyPalette      = errors.New("palette has no colors")
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnknownChartKind  = errors.New("unknown chart kind")
	ErrRunStoreDisabled  = errors.New("run history is disabled")
	ErrNothingToRender   = errors.New("nothing to render")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// FieldIssue describes one field of one record that failed coercion.
type FieldIssue struct {
	Row   int       `json:"row"`
	Field string    `json:"field"`
	Value string    `json:"value"`
	Kind  IssueKind `json:"kind"`
}

// Error implements the error interface.
func (fi FieldIssue) Error() string {
	return fmt.Sprintf("row %d field %q: %s %q", fi.Row, fi.Field, fi.Kind, fi.Value)
}

// Unwrap maps the issue kind back to its sentinel so errors.Is works.
func (fi FieldIssue) Unwrap() error {
	switch fi.Kind {
	case MalformedNumberIssue:
		return ErrMalformedNumber
	case UnparseableDateIssue:
		return ErrUnparseableDate
	default:
		return nil
	}
}
