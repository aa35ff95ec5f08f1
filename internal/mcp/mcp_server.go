// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/likeplot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the likeplot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"likeplot Chart Data Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_boxplot ---
	s.AddTool(mcp.NewTool("summarize_boxplot",
		mcp.WithDescription("Compute min, quartiles, max and IQR of a numeric column per category."),
		mcp.WithString("csv_path", mcp.Description("Path to the CSV file (defaults to the configured box plot dataset).")),
		mcp.WithString("group_field", mcp.Description("Category column. Defaults to 'AgeGroup'.")),
		mcp.WithString("value_field", mcp.Description("Numeric column. Defaults to 'Likes'.")),
	), h.handleSummarizeBoxPlot)

	// --- 2. Tool: group_barplot ---
	s.AddTool(mcp.NewTool("group_barplot",
		mcp.WithDescription("Lay out grouped bars with one bar per category and subcategory, plus a color legend."),
		mcp.WithString("csv_path", mcp.Description("Path to the CSV file (defaults to the configured bar chart dataset).")),
		mcp.WithString("group_field", mcp.Description("Outer category column. Defaults to 'Platform'.")),
		mcp.WithString("subgroup_field", mcp.Description("Inner category column. Defaults to 'PostType'.")),
		mcp.WithString("value_field", mcp.Description("Numeric column. Defaults to 'AvgLikes'.")),
	), h.handleGroupBarChart)

	// --- 3. Tool: normalize_lineplot ---
	s.AddTool(mcp.NewTool("normalize_lineplot",
		mcp.WithDescription("Parse dates, drop unparseable ones and sort the series ascending by date."),
		mcp.WithString("csv_path", mcp.Description("Path to the CSV file (defaults to the configured line chart dataset).")),
		mcp.WithString("date_field", mcp.Description("Date column. Defaults to 'Date'.")),
		mcp.WithString("value_field", mcp.Description("Numeric column. Defaults to 'AvgLikes'.")),
	), h.handleNormalizeLineChart)

	// --- 4. Tool: summarize_values ---
	s.AddTool(mcp.NewTool("summarize_values",
		mcp.WithDescription("Compute min, quartiles, max and IQR of a list of numbers."),
		mcp.WithString("values", mcp.Description("Comma separated numbers, e.g. '1, 2.5, 3'."), mcp.Required()),
	), h.handleSummarizeValues)

	return s
}

// StartMCPServer starts the likeplot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
