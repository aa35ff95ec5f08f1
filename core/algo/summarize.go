// Package algo has the pure statistical and grouping algorithms behind the charts.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/likeplot/schema"
)

// Quartile probabilities.
const (
	pQ1     = 0.25
	pMedian = 0.5
	pQ3     = 0.75
)

// Quantile returns the p-quantile of an ascending slice using linear interpolation
// at rank p*(n-1). It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := min(lo+1, n-1)
	v0, v1 := sorted[lo], sorted[hi]
	frac := rank - float64(lo)
	if frac == 0 || v0 == v1 {
		return v0
	}
	q := v0 + (v1-v0)*frac
	if math.IsNaN(q) {
		// Opposite infinities.
		return v0
	}
	// Clamp so rounding never pushes the result outside [v0, v1].
	return math.Min(math.Max(q, v0), v1)
}

// Summarize computes min, q1, median, q3, max and iqr of values.
// NaN values are skipped; if nothing is left the result is schema.ErrInsufficientData.
// The input slice is not modified.
func Summarize(values []float64) (schema.Summary, error) {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return schema.Summary{}, schema.ErrInsufficientData
	}
	slices.Sort(sorted)

	q1 := Quantile(sorted, pQ1)
	q3 := Quantile(sorted, pQ3)
	return schema.Summary{
		Min:    sorted[0],
		Q1:     q1,
		Median: Quantile(sorted, pMedian),
		Q3:     q3,
		Max:    sorted[len(sorted)-1],
		IQR:    q3 - q1,
	}, nil
}
