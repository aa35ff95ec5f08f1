package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/likeplot/core"
	"github.com/huangsam/likeplot/core/algo"
	"github.com/huangsam/likeplot/core/load"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// overrideDataset applies the optional tool arguments to ds.
func overrideDataset(ds *contract.DatasetConfig, request mcp.CallToolRequest) {
	if p := request.GetString("csv_path", ""); p != "" {
		ds.File = p
	}
	if f := request.GetString("group_field", ""); f != "" {
		ds.Group = f
	}
	if f := request.GetString("subgroup_field", ""); f != "" {
		ds.Subgroup = f
	}
	if f := request.GetString("value_field", ""); f != "" {
		ds.Value = f
	}
	if f := request.GetString("date_field", ""); f != "" {
		ds.Date = f
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSummarizeBoxPlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	overrideDataset(&cfg.BoxPlot, request)

	result, err := core.GetBoxPlotResults(ctx, cfg, load.NewCSVSource(cfg.BoxPlot.File), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("box plot failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGroupBarChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	overrideDataset(&cfg.BarChart, request)

	result, err := core.GetBarChartResults(ctx, cfg, load.NewCSVSource(cfg.BarChart.File), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bar chart failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleNormalizeLineChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	overrideDataset(&cfg.Line, request)

	result, err := core.GetLineChartResults(ctx, cfg, load.NewCSVSource(cfg.Line.File), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("line chart failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleSummarizeValues(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values, err := parseValues(request.GetString("values", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid values: %v", err)), nil
	}

	summary, err := algo.Summarize(values)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

// parseValues splits a comma separated list. Blank entries are skipped.
func parseValues(s string) ([]float64, error) {
	var values []float64
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := load.CoerceNumber(part)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
