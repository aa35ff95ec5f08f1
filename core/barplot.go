package core

import (
	"math"

	"github.com/huangsam/likeplot/core/algo"
	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/schema"
)

// barHeadroom leaves space above the tallest bar.
const barHeadroom = 1.08

// BuildBarChart nests records by groupField then subgroupField and emits one bar per
// (group, subgroup) pair, subgroups ordered by first occurrence across the whole input.
// A pair without rows becomes a zero-height bar with Present unset.
// When a pair has several rows the last one wins and the extras are counted.
func BuildBarChart(records []load.Record, groupField, subgroupField, valueField string, palette []string) (schema.BarChartResult, error) {
	subgroupOf := func(r load.Record) string { return r.Text(subgroupField) }
	subgroups := algo.DistinctOrdered(records, subgroupOf)

	scale, err := algo.AssignColors(subgroups, palette)
	if err != nil {
		return schema.BarChartResult{}, err
	}

	nested := algo.Nest(records, func(r load.Record) string { return r.Text(groupField) }, subgroupOf)

	result := schema.BarChartResult{
		GroupField:    groupField,
		SubgroupField: subgroupField,
		ValueField:    valueField,
		Subgroups:     subgroups,
		Legend:        scale.Assignments(),
		PaletteCycled: scale.Cycled(),
	}
	if result.Subgroups == nil {
		result.Subgroups = []string{}
	}

	for _, group := range nested.Keys() {
		bg := schema.BarGroup{Group: group, Bars: make([]schema.Bar, 0, len(subgroups))}
		for _, sub := range subgroups {
			bar := schema.Bar{Group: group, Subgroup: sub, Color: scale.ColorOf(sub)}
			members, ok := nested.Lookup(group, sub)
			if !ok || len(members) == 0 {
				result.Missing++
				bg.Bars = append(bg.Bars, bar)
				continue
			}
			v := members[len(members)-1].Number(valueField)
			bar.Present = true
			bar.Value = schema.Number(v)
			bar.Malformed = math.IsNaN(v)
			bar.Duplicates = len(members) - 1
			result.Duplicates += bar.Duplicates
			bg.Bars = append(bg.Bars, bar)
		}
		result.Groups = append(result.Groups, bg)
	}
	if result.Groups == nil {
		result.Groups = []schema.BarGroup{}
	}

	result.YDomain = schema.Domain{Max: maxBarValue(result.Groups) * barHeadroom}
	return result, nil
}

// maxBarValue returns the tallest valid bar, or zero.
func maxBarValue(groups []schema.BarGroup) float64 {
	m := 0.0
	for _, g := range groups {
		for _, b := range g.Bars {
			if b.Present && b.Value.IsValid() {
				m = max(m, float64(b.Value))
			}
		}
	}
	return m
}
