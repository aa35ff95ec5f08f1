package cmd

import (
	"github.com/huangsam/likeplot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the likeplot MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents compute chart values via standard tools.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupFor(""),
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
