package load

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/likeplot/schema"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 1024

// CSVSource reads rows from a CSV file with a header line.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a source for the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Name returns the path of the file.
func (s *CSVSource) Name() string {
	return s.Path
}

// Rows opens the file and returns every data row keyed by header name.
func (s *CSVSource) Rows(ctx context.Context, required []string) ([]schema.Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(ctx, f, required)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return rows, nil
}

// ReadCSV parses CSV data with a header line. Required columns missing from the
// header fail with schema.ErrMissingColumn before any data row is read.
// Short rows yield empty text for their missing cells.
func ReadCSV(ctx context.Context, r io.Reader, required []string) ([]schema.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: %w", schema.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := ValidateHeader(header, required); err != nil {
		return nil, err
	}

	var rows []schema.Row
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", n+1, err)
		}
		row := make(schema.Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ValidateHeader checks that every required column is present.
func ValidateHeader(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", schema.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
