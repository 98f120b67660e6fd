package cmd

import (
	"fmt"

	"github.com/huangsam/trafficprofile/core"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/outwriter"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/spf13/cobra"
)

// historyCmd prints a route's persisted series.
var historyCmd = &cobra.Command{
	Use:   "history <route.yaml|route-key>",
	Short: "Show every persisted sample for a route.",
	Long: `Print the cumulative series stored in traffic_<route>.csv, one row per
sample with its delay over the fastest observed trip and a Free, Moderate,
Heavy or Severe label, followed by min, mean and max.

Examples:
  # Table output
  trafficprofile history home_work

  # JSON for scripting
  trafficprofile history routes/home_work.yaml --output json

  # Parquet copy of the series
  trafficprofile history home_work --output parquet --output-file home_work.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := seriesstore.New(cfg.DataDir)

		if cfg.Output == schema.ParquetOut {
			path, n, err := core.ExecuteExport(rootCtx, store, cfg.RouteKey, cfg.OutputFile)
			if err != nil {
				contract.LogFatal("Cannot export history", err)
			}
			fmt.Printf("💾 Wrote %d samples to %s\n", n, path)
			return
		}

		result, err := core.LoadHistory(rootCtx, store, cfg.RouteKey)
		if err != nil {
			contract.LogFatal("Cannot load history", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(result, cfg); err != nil {
			contract.LogFatal("Cannot print history", err)
		}
	},
}
