package cmd

import (
	"fmt"

	"github.com/huangsam/trafficprofile/core"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/plot"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/spf13/cobra"
)

// plotCmd re-renders a chart from the persisted series.
var plotCmd = &cobra.Command{
	Use:   "plot <route.yaml|route-key>",
	Short: "Chart a route's most recent run, or its whole history.",
	Long: `Render traffic_profile_<route>_<YYYY-MM-DD-HHMM>.png from the persisted series.

Runs are told apart by gaps longer than twice --interval. Without --all only
the last run is charted, which reproduces the chart of the latest sample run.

Examples:
  # Redraw the latest run
  trafficprofile plot home_work

  # Chart every sample ever taken
  trafficprofile plot home_work --all`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := seriesstore.New(cfg.DataDir)
		chart, err := core.ExecutePlot(rootCtx, store, plot.New(cfg.DataDir), cfg.RouteKey, input.Interval, cfg.AllHistory)
		if err != nil {
			contract.LogFatal("Cannot plot series", err)
		}
		fmt.Printf("📈 Chart written to %s\n", chart)
	},
}
