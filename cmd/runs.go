package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/runstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRunsConfig reads the run history settings from config, env and flags.
func loadRunsConfig() error {
	setConfigFile()
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("runs-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup loads minimal configuration and opens the run store.
// This is used by commands that need run history without the full shared setup.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := loadRunsConfig(); err != nil {
		return err
	}
	if err := runstore.InitStore(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// runsOfflineSetup loads the configuration without opening the store,
// so migrations and clearing work on a fresh or broken database.
func runsOfflineSetup(_ *cobra.Command, _ []string) error {
	return loadRunsConfig()
}

// sqliteRunsPath returns the SQLite file of the run history.
func sqliteRunsPath() string {
	if cfg.RunsDBConnect != "" {
		return cfg.RunsDBConnect
	}
	return contract.GetRunsDBFilePath()
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of chart runs",
	Long: `Manage the run history recorded by the chart commands.

When a runs backend is configured, every boxplot, barplot and lineplot run stores:
- Run metadata (chart kind, source file, columns, timing)
- Row and issue counts of the loaded dataset
- One row per computed value (box summaries, bars, time points)

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Track runs in SQLite
  likeplot boxplot --runs-backend sqlite
  likeplot runs status --runs-backend sqlite`,
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", fmt.Errorf("run store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		runstore.PrintRunStatus(os.Stdout, status)
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs and their computed values.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  likeplot runs export --runs-backend sqlite --output-file backup
  likeplot runs clear --runs-backend sqlite`,
	PreRunE: runsOfflineSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearRuns(cfg.RunsBackend, sqliteRunsPath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs to Parquet.

Writes two files next to --output-file:
- <output-file>.runs.parquet - metadata about each run
- <output-file>.group_results.parquet - the computed values of each run

Examples:
  likeplot runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT kind, count(*) FROM read_parquet('history.runs.parquet') GROUP BY kind"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunsExport(runstore.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  likeplot runs migrate --runs-backend sqlite

  # Rollback everything
  likeplot runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsOfflineSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
