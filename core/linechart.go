package core

import (
	"github.com/huangsam/likeplot/core/algo"
	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/schema"
)

// lineHeadroom leaves space above the highest point.
const lineHeadroom = 1.05

// BuildLineChart turns dated records into an ascending time series.
func BuildLineChart(records []load.Record, dateField, valueField string) schema.LineChartResult {
	ts := algo.Normalize(records, dateField, valueField)

	points := ts.Points
	if points == nil {
		points = []schema.TimePoint{}
	}

	top := 0.0
	for _, p := range points {
		if p.Value.IsValid() {
			top = max(top, float64(p.Value))
		}
	}

	return schema.LineChartResult{
		DateField:   dateField,
		ValueField:  valueField,
		Points:      points,
		Unparseable: ts.Unparseable,
		Malformed:   ts.Malformed,
		YDomain:     schema.Domain{Max: top * lineHeadroom},
	}
}
