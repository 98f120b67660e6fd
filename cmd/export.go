package cmd

import (
	"fmt"

	"github.com/huangsam/trafficprofile/core"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/spf13/cobra"
)

// exportCmd writes a route's persisted series to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export <route.yaml|route-key>",
	Short: "Export a route's persisted series to Parquet.",
	Long: `Write every sample in traffic_<route>.csv to a Parquet file for pandas,
DuckDB or a BI tool. Without --output-file the file lands next to the CSV as
traffic_<route>.parquet.

Examples:
  trafficprofile export home_work
  duckdb -c "SELECT avg(duration_minutes) FROM read_parquet('traffic_home_work.parquet')"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		path, n, err := core.ExecuteExport(rootCtx, seriesstore.New(cfg.DataDir), cfg.RouteKey, cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Cannot export series", err)
		}
		fmt.Printf("💾 Wrote %d samples to %s\n", n, path)
	},
}
