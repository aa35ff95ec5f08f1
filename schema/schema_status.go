package schema

import "time"

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int              `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the likeplot_runs table.
type RunRecord struct {
	RunID        int64
	Kind         string
	Source       string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalRows    int32
	IssueCount   int32
	ConfigParams *string
}

// GroupResultRecord represents a row from the likeplot_group_results table.
// One table holds all three chart kinds: box plot rows fill the quartile columns,
// bar and line rows fill Value.
type GroupResultRecord struct {
	RunID    int64
	Seq      int32
	Kind     string
	Label    string
	Sublabel *string
	Value    *float64
	Min      *float64
	Q1       *float64
	Median   *float64
	Q3       *float64
	Max      *float64
	Count    int32
	Excluded int32
	Note     *string
}
