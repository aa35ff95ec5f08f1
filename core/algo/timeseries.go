package algo

import (
	"math"
	"slices"

	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/schema"
)

// TimeSeries is the output of Normalize.
type TimeSeries struct {
	Points      []schema.TimePoint
	Unparseable int
	Malformed   int
}

// Normalize builds an ascending time series from records.
// Records without a parsed date are excluded and counted. Records whose value
// is malformed stay in the series with a NaN value and are counted.
// The sort is stable, so equal timestamps keep input order.
func Normalize(records []load.Record, dateField, valueField string) TimeSeries {
	var ts TimeSeries
	ts.Points = make([]schema.TimePoint, 0, len(records))
	for _, rec := range records {
		t, ok := rec.Date(dateField)
		if !ok {
			ts.Unparseable++
			continue
		}
		v := rec.Number(valueField)
		malformed := math.IsNaN(v)
		if malformed {
			ts.Malformed++
		}
		ts.Points = append(ts.Points, schema.TimePoint{
			Time:      t,
			Value:     schema.Number(v),
			Raw:       rec.Text(dateField),
			Malformed: malformed,
		})
	}
	slices.SortStableFunc(ts.Points, func(a, b schema.TimePoint) int {
		return a.Time.Compare(b.Time)
	})
	return ts
}
