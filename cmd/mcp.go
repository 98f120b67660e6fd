package cmd

import (
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/mcp"
	"github.com/huangsam/trafficprofile/internal/runstore"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the trafficprofile MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read persisted route
series and recorded runs. The tools are read-only; sampling stays a CLI job.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Diagnostics go to stderr, so stdout stays clean for the protocol.
		if err := runsConfigSetup(cmd, args); err != nil {
			return err
		}
		return initRunTracking()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		var mgr contract.StoreManager
		if cfg.RunsBackend != schema.NoneBackend {
			mgr = runstore.Manager
		}
		return mcp.StartMCPServer(rootCtx, seriesstore.New(cfg.DataDir), mgr)
	},
}
