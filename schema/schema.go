// Package schema has models, constants and errors for all parts of likeplot.
package schema

import (
	"encoding/json"
	"math"
	"time"
)

// Row is one raw input row keyed by column name.
type Row map[string]string

// Number is a float64 that marshals NaN and infinities as JSON null.
type Number float64

// IsValid reports whether the number is finite.
func (n Number) IsValid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsValid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Summary is the five-number summary of a group plus its interquartile range.
// Invariant: Min <= Q1 <= Median <= Q3 <= Max and IQR = Q3 - Q1.
type Summary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	IQR    float64 `json:"iqr"`
}

// Domain is a closed value range for one chart axis.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BatchReport aggregates the per-record problems seen while loading one dataset.
type BatchReport struct {
	Rows             int          `json:"rows"`
	MalformedNumbers int          `json:"malformed_numbers"`
	UnparseableDates int          `json:"unparseable_dates"`
	Issues           []FieldIssue `json:"issues,omitempty"`
}

// Add records one issue and bumps the matching counter.
func (br *BatchReport) Add(issue FieldIssue) {
	switch issue.Kind {
	case MalformedNumberIssue:
		br.MalformedNumbers++
	case UnparseableDateIssue:
		br.UnparseableDates++
	}
	br.Issues = append(br.Issues, issue)
}

// Clean reports whether no issue was recorded.
func (br BatchReport) Clean() bool {
	return len(br.Issues) == 0
}

// GroupSummary is the box plot statistic for one category.
// Summary is nil when the group could not be summarized, in which case Error says why.
type GroupSummary struct {
	Group    string   `json:"group"`
	Count    int      `json:"count"`
	Excluded int      `json:"excluded"`
	Summary  *Summary `json:"summary,omitempty"`
	Error    string   `json:"error,omitempty"`
	Err      error    `json:"-"`
}

// BoxPlotResult is everything a renderer needs to draw the box plot.
type BoxPlotResult struct {
	Source     string         `json:"source"`
	GroupField string         `json:"group_field"`
	ValueField string         `json:"value_field"`
	Groups     []GroupSummary `json:"groups"`
	YDomain    Domain         `json:"y_domain"`
	Report     BatchReport    `json:"report"`
}

// Failed returns the number of groups without a summary.
func (r BoxPlotResult) Failed() int {
	n := 0
	for _, g := range r.Groups {
		if g.Summary == nil {
			n++
		}
	}
	return n
}

// ColorAssignment maps one category to its color.
type ColorAssignment struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Bar is one bar of the grouped bar chart.
// Present is false when the group has no row for the subgroup and the bar has zero height.
type Bar struct {
	Group      string `json:"group"`
	Subgroup   string `json:"subgroup"`
	Value      Number `json:"value"`
	Present    bool   `json:"present"`
	Malformed  bool   `json:"malformed,omitempty"`
	Duplicates int    `json:"duplicates,omitempty"`
	Color      string `json:"color"`
}

// BarGroup holds the bars of one outer category in legend order.
type BarGroup struct {
	Group string `json:"group"`
	Bars  []Bar  `json:"bars"`
}

// BarChartResult is everything a renderer needs to draw the grouped bar chart.
type BarChartResult struct {
	Source        string            `json:"source"`
	GroupField    string            `json:"group_field"`
	SubgroupField string            `json:"subgroup_field"`
	ValueField    string            `json:"value_field"`
	Groups        []BarGroup        `json:"groups"`
	Subgroups     []string          `json:"subgroups"`
	Legend        []ColorAssignment `json:"legend"`
	PaletteCycled bool              `json:"palette_cycled"`
	Missing       int               `json:"missing"`
	Duplicates    int               `json:"duplicates"`
	YDomain       Domain            `json:"y_domain"`
	Report        BatchReport       `json:"report"`
}

// TimePoint is one observation of the line chart.
type TimePoint struct {
	Time      time.Time `json:"time"`
	Value     Number    `json:"value"`
	Raw       string    `json:"raw"`
	Malformed bool      `json:"malformed,omitempty"`
}

// LineChartResult is everything a renderer needs to draw the line chart.
// Points are ascending by time and ties keep input order.
type LineChartResult struct {
	Source      string      `json:"source"`
	DateField   string      `json:"date_field"`
	ValueField  string      `json:"value_field"`
	Points      []TimePoint `json:"points"`
	Unparseable int         `json:"unparseable"`
	Malformed   int         `json:"malformed"`
	YDomain     Domain      `json:"y_domain"`
	Report      BatchReport `json:"report"`
}
