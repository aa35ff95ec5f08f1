package cmd

import (
	"github.com/huangsam/likeplot/core"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	"github.com/spf13/cobra"
)

// boxplotCmd summarizes likes per age group.
var boxplotCmd = &cobra.Command{
	Use:   "boxplot [csv-path]",
	Short: "Show min, quartiles, max and IQR of likes per age group.",
	Long: `Compute the five-number summary behind a box plot.

Rows are grouped by the category column in first-seen order. Each group gets
min, q1, median, q3, max and IQR using linear interpolation between ranks.
Malformed numbers are excluded and counted per group, and a group with no
usable value is reported as failed without stopping the others.

Examples:
  # Summarize socialMedia.csv in the current directory
  likeplot boxplot

  # Use another file and column names
  likeplot boxplot data/export.csv --box-group-field Age --box-value-field Hearts

  # Export the statistics to CSV
  likeplot boxplot --output csv --output-file boxplot.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupFor(schema.BoxPlotChart),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBoxPlot(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute box plot", err)
		}
	},
}

// barplotCmd lays out average likes per platform and post type.
var barplotCmd = &cobra.Command{
	Use:   "barplot [csv-path]",
	Short: "Show average likes per platform and post type with a color legend.",
	Long: `Compute the bars of a grouped bar chart.

Every platform gets one bar per post type, in the order post types first
appear in the file. A platform without a post type gets a zero-height bar
marked Missing. Post types are colored from the palette, reusing colors
when there are more post types than colors.

Examples:
  # Lay out socialMediaAvg.csv in the current directory
  likeplot barplot

  # Use a custom palette
  likeplot barplot --palette "#e41a1c,#377eb8,#4daf4a,#984ea3"

  # Print JSON for another tool
  likeplot barplot --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupFor(schema.BarChartChart),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBarChart(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute bar chart", err)
		}
	},
}

// lineplotCmd sorts average likes by date.
var lineplotCmd = &cobra.Command{
	Use:   "lineplot [csv-path]",
	Short: "Show average likes over time sorted by date.",
	Long: `Normalize the series behind a line chart.

The first m/d/yyyy token of each date cell is parsed, so values like
"3/1/2024 (Friday)" work. Rows whose date cannot be parsed are dropped and
counted. Points are sorted ascending and rows with equal dates keep their
file order.

Examples:
  # Normalize socialMediaTime.csv in the current directory
  likeplot lineplot

  # Show which rows were dropped
  likeplot lineplot --verbose`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupFor(schema.LineChart),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLineChart(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute line chart", err)
		}
	},
}
