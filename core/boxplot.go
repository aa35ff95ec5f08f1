package core

import (
	"math"

	"github.com/huangsam/likeplot/core/algo"
	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/schema"
)

// BuildBoxPlot groups records by groupField and summarizes valueField per group.
// Values that failed coercion are left out of the summary and counted in Excluded.
// A group that cannot be summarized keeps its place with Error set; the others are unaffected.
func BuildBoxPlot(records []load.Record, groupField, valueField string) schema.BoxPlotResult {
	groups := algo.GroupBy(records, func(r load.Record) string { return r.Text(groupField) })

	result := schema.BoxPlotResult{
		GroupField: groupField,
		ValueField: valueField,
		Groups:     make([]schema.GroupSummary, 0, groups.Len()),
	}
	for key, members := range groups.All() {
		result.Groups = append(result.Groups, summarizeGroup(key, members, valueField))
	}
	result.YDomain = boxPlotDomain(result.Groups)
	return result
}

func summarizeGroup(key string, members []load.Record, valueField string) schema.GroupSummary {
	gs := schema.GroupSummary{Group: key, Count: len(members)}
	values := make([]float64, 0, len(members))
	for _, r := range members {
		v := r.Number(valueField)
		if math.IsNaN(v) {
			gs.Excluded++
			continue
		}
		values = append(values, v)
	}

	summary, err := algo.Summarize(values)
	if err != nil {
		gs.Err = err
		gs.Error = err.Error()
		return gs
	}
	gs.Summary = &summary
	return gs
}

// boxPlotDomain spans the whiskers of every summarized group and always includes zero at the bottom.
func boxPlotDomain(groups []schema.GroupSummary) schema.Domain {
	var d schema.Domain
	seen := false
	for _, g := range groups {
		if g.Summary == nil {
			continue
		}
		if !seen {
			d = schema.Domain{Min: min(0, g.Summary.Min), Max: g.Summary.Max}
			seen = true
			continue
		}
		d.Min = min(d.Min, g.Summary.Min)
		d.Max = max(d.Max, g.Summary.Max)
	}
	return d
}
