package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
)

// lineLabelFormat is how time points are labeled in run history.
const lineLabelFormat = "2006-01-02"

// beginRun opens a tracked run when a store is configured and stores its ID in the context.
// Tracking failures are reported but never stop the pipeline.
func beginRun(ctx context.Context, mgr contract.StoreManager, kind schema.ChartKind, source string, ds contract.DatasetConfig) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetRunStore()
	if store == nil {
		return ctx
	}

	configParams := map[string]any{
		"kind":   string(kind),
		"source": source,
		"fields": fieldParams(ds),
	}
	runID, err := store.BeginRun(kind, source, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx
}

// finishRun records the per-group results and completes the run started by beginRun.
func finishRun(ctx context.Context, mgr contract.StoreManager, records []schema.GroupResultRecord, report schema.BatchReport) {
	runID, ok := getRunID(ctx)
	if !ok || mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}

	for i := range records {
		records[i].RunID = runID
	}
	if err := store.RecordGroupResults(runID, records); err != nil {
		logTrackingError("RecordGroupResults", runID, err)
	}
	if err := store.EndRun(runID, time.Now(), report.Rows, len(report.Issues)); err != nil {
		logTrackingError("EndRun", runID, err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting the pipeline.
func logTrackingError(operation string, runID int64, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on run %d", operation, runID), err)
}

func fieldParams(ds contract.DatasetConfig) map[string]string {
	params := map[string]string{"value": ds.Value}
	if ds.Group != "" {
		params["group"] = ds.Group
	}
	if ds.Subgroup != "" {
		params["subgroup"] = ds.Subgroup
	}
	if ds.Date != "" {
		params["date"] = ds.Date
	}
	return params
}

// boxPlotRecords flattens a box plot into one row per group.
func boxPlotRecords(result schema.BoxPlotResult) []schema.GroupResultRecord {
	records := make([]schema.GroupResultRecord, 0, len(result.Groups))
	for i, g := range result.Groups {
		rec := schema.GroupResultRecord{
			Seq:      int32(i),
			Kind:     string(schema.BoxPlotChart),
			Label:    g.Group,
			Count:    int32(g.Count),
			Excluded: int32(g.Excluded),
		}
		if g.Summary != nil {
			rec.Min = floatPtr(g.Summary.Min)
			rec.Q1 = floatPtr(g.Summary.Q1)
			rec.Median = floatPtr(g.Summary.Median)
			rec.Q3 = floatPtr(g.Summary.Q3)
			rec.Max = floatPtr(g.Summary.Max)
		} else {
			rec.Note = stringPtr(g.Error)
		}
		records = append(records, rec)
	}
	return records
}

// barChartRecords flattens a bar chart into one row per bar.
func barChartRecords(result schema.BarChartResult) []schema.GroupResultRecord {
	var records []schema.GroupResultRecord
	for _, g := range result.Groups {
		for _, b := range g.Bars {
			rec := schema.GroupResultRecord{
				Seq:      int32(len(records)),
				Kind:     string(schema.BarChartChart),
				Label:    b.Group,
				Sublabel: stringPtr(b.Subgroup),
				Count:    int32(b.Duplicates),
			}
			if b.Present {
				rec.Count++
			}
			if b.Present && b.Value.IsValid() {
				rec.Value = floatPtr(float64(b.Value))
			}
			if status := contract.GetPlainStatus(b.Present, b.Malformed, ""); status != contract.OKValue {
				rec.Note = stringPtr(status)
			}
			records = append(records, rec)
		}
	}
	return records
}

// lineChartRecords flattens a line chart into one row per point.
func lineChartRecords(result schema.LineChartResult) []schema.GroupResultRecord {
	records := make([]schema.GroupResultRecord, 0, len(result.Points))
	for i, p := range result.Points {
		rec := schema.GroupResultRecord{
			Seq:      int32(i),
			Kind:     string(schema.LineChart),
			Label:    p.Time.Format(lineLabelFormat),
			Sublabel: stringPtr(p.Raw),
			Count:    1,
		}
		if p.Value.IsValid() {
			rec.Value = floatPtr(float64(p.Value))
		} else {
			rec.Note = stringPtr(contract.MalformedValue)
		}
		records = append(records, rec)
	}
	return records
}

func floatPtr(v float64) *float64 { return &v }

func stringPtr(s string) *string { return &s }
