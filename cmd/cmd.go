// Package cmd defines the command-line interface for likeplot.
package cmd

import (
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(boxplotCmd)
	rootCmd.AddCommand(barplotCmd)
	rootCmd.AddCommand(lineplotCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log per-record data issues and debug diagnostics to stderr")
	rootCmd.PersistentFlags().String("palette", "", "Comma-separated hex colors for bar chart subgroups (default #1f77b4,#ff7f0e,#2ca02c)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Dataset files and column names
	rootCmd.PersistentFlags().String("box-file", schema.DefaultBoxPlotFile, "CSV file of the box plot dataset")
	rootCmd.PersistentFlags().String("box-group-field", schema.DefaultAgeGroupField, "Category column of the box plot")
	rootCmd.PersistentFlags().String("box-value-field", schema.DefaultLikesField, "Numeric column of the box plot")
	rootCmd.PersistentFlags().String("bar-file", schema.DefaultBarChartFile, "CSV file of the bar chart dataset")
	rootCmd.PersistentFlags().String("bar-group-field", schema.DefaultPlatformField, "Outer category column of the bar chart")
	rootCmd.PersistentFlags().String("bar-subgroup-field", schema.DefaultPostTypeField, "Inner category column of the bar chart")
	rootCmd.PersistentFlags().String("bar-value-field", schema.DefaultAvgLikesField, "Numeric column of the bar chart")
	rootCmd.PersistentFlags().String("line-file", schema.DefaultLineFile, "CSV file of the line chart dataset")
	rootCmd.PersistentFlags().String("line-date-field", schema.DefaultDateField, "Date column of the line chart")
	rootCmd.PersistentFlags().String("line-value-field", schema.DefaultAvgLikesField, "Numeric column of the line chart")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of renderCmd to Viper
	renderCmd.Flags().String("format", string(schema.SVGFormat), "Image format: svg or png")
	renderCmd.Flags().String("out-dir", contract.DefaultOutDir, "Directory to write the chart files to")
	if err := viper.BindPFlags(renderCmd.Flags()); err != nil {
		contract.LogFatal("Error binding render flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP API to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
