package cmd

import (
	"github.com/huangsam/likeplot/core"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/internal/render"
	"github.com/spf13/cobra"
)

// renderCmd draws all three charts to image files.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the box plot, bar chart and line chart to SVG or PNG files.",
	Long: `Compute all three charts from their configured datasets and draw them.

Files are named after the chart: boxplot.svg, barplot.svg and lineplot.svg.
A chart that fails is reported and the others are still written.

Examples:
  # Write SVG files to the current directory
  likeplot render

  # Write PNG files to charts/
  likeplot render --format png --out-dir charts`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupFor(""),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, storeManager, render.NewChartSink()); err != nil {
			contract.LogFatal("Cannot render charts", err)
		}
	},
}
