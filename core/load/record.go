package load

import (
	"math"
	"time"

	"github.com/huangsam/likeplot/schema"
)

// Schema declares which columns are numeric and which hold dates.
// Required lists columns that must appear in the header; numeric and date
// columns are always required.
type Schema struct {
	Numeric  []string
	Dates    []string
	Required []string
}

// Columns returns every column the schema requires, without duplicates.
func (s Schema) Columns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]string{s.Required, s.Numeric, s.Dates} {
		for _, c := range group {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Record is one typed input row. It is not modified after Load returns it.
type Record struct {
	Row     int
	raw     schema.Row
	numbers map[string]float64
	dates   map[string]time.Time
}

// Text returns the raw text of a column, or "" when the column is absent.
func (r Record) Text(field string) string {
	return r.raw[field]
}

// Number returns the coerced value of a numeric column.
// It is NaN when coercion failed or the column was not declared numeric.
func (r Record) Number(field string) float64 {
	v, ok := r.numbers[field]
	if !ok {
		return math.NaN()
	}
	return v
}

// Date returns the parsed value of a date column.
func (r Record) Date(field string) (time.Time, bool) {
	t, ok := r.dates[field]
	return t, ok
}
