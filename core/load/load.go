// Package load turns raw tabular rows into typed records.
package load

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/likeplot/schema"
)

// CoerceNumber converts text to a number the way a unary plus would:
// surrounding space is ignored and empty text is zero. Anything that does not
// parse to a finite value yields NaN and an error wrapping schema.ErrMalformedNumber.
func CoerceNumber(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN(), fmt.Errorf("coerce %q: %w", text, schema.ErrMalformedNumber)
	}
	return v, nil
}

// Load converts rows into records. Field failures never stop the batch:
// each one becomes an issue in the report and the record is still returned.
// Row numbers are 1-based and count data rows only.
func Load(rows []schema.Row, s Schema) ([]Record, schema.BatchReport) {
	report := schema.BatchReport{Rows: len(rows)}
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec := Record{
			Row:     i + 1,
			raw:     row,
			numbers: make(map[string]float64, len(s.Numeric)),
			dates:   make(map[string]time.Time, len(s.Dates)),
		}
		for _, field := range s.Numeric {
			v, err := CoerceNumber(row[field])
			rec.numbers[field] = v
			if err != nil {
				report.Add(schema.FieldIssue{Row: rec.Row, Field: field, Value: row[field], Kind: schema.MalformedNumberIssue})
			}
		}
		for _, field := range s.Dates {
			t, err := ParseDate(row[field])
			if err != nil {
				report.Add(schema.FieldIssue{Row: rec.Row, Field: field, Value: row[field], Kind: schema.UnparseableDateIssue})
				continue
			}
			rec.dates[field] = t
		}
		records = append(records, rec)
	}
	return records, report
}
