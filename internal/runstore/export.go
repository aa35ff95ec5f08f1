package runstore

import (
	"errors"
	"fmt"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/parquet"
)

// ExecuteRunsExport exports the run history of store to two Parquet files
// next to outputFile: outputFile.runs.parquet and outputFile.group_results.parquet.
func ExecuteRunsExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total group results: %d\n", status.TableSizes[groupResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	groups, err := store.GetAllGroupResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve group results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	groupsFile := outputFile + ".group_results.parquet"
	if err := parquet.WriteGroupResultsParquet(parquet.ConvertGroupResultRecords(groups), groupsFile); err != nil {
		return fmt.Errorf("failed to write group results: %w", err)
	}
	fmt.Printf("Exported %d group results to: %s\n", len(groups), groupsFile)
	return nil
}
