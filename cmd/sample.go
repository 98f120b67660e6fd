package cmd

import (
	"fmt"

	"github.com/huangsam/trafficprofile/core"
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/directions"
	"github.com/huangsam/trafficprofile/internal/outwriter"
	"github.com/huangsam/trafficprofile/internal/plot"
	"github.com/huangsam/trafficprofile/internal/route"
	"github.com/huangsam/trafficprofile/internal/runstore"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/spf13/cobra"
)

// sampleSetup validates the sampling flags on top of the shared setup.
func sampleSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if err := contract.ProcessSampleInputs(cfg, input); err != nil {
		return err
	}
	return initRunTracking()
}

// newProvider builds the directions provider once for the whole run.
func newProvider(c *contract.Config) (contract.DirectionsProvider, error) {
	switch c.Provider {
	case schema.StaticProvider:
		return directions.NewStaticProvider(c.StaticMinutes), nil
	default:
		google, err := directions.NewGoogleProvider(c.APIKey)
		if err != nil {
			return nil, err
		}
		return directions.Timed{DirectionsProvider: google}, nil
	}
}

// sampleCmd runs one fixed-duration sampling session for a route.
var sampleCmd = &cobra.Command{
	Use:   "sample <route.yaml>",
	Short: "Sample a route's driving duration at a fixed interval.",
	Long: `Query the directions service every --interval minutes for --hours or
--minutes in total, then append the samples to traffic_<route>.csv and chart them.

The route file is YAML with origin and destination strings. Its base name
without extension is the route key, so routes/home_work.yaml writes to
traffic_home_work.csv. Interrupting the run persists nothing.

Examples:
  # Sample every 2 minutes for 3 hours
  trafficprofile sample routes/home_work.yaml --hours 3

  # Sample every 5 minutes for 45 minutes without a chart
  trafficprofile sample routes/home_work.yaml --minutes 45 --interval 5 --no-plot

  # Dry run against the offline provider
  trafficprofile sample routes/home_work.yaml --minutes 10 --provider static --static-minutes 25`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sampleSetup,
	Run: func(_ *cobra.Command, _ []string) {
		r, err := route.Load(cfg.RoutePath)
		if err != nil {
			contract.LogFatal("Cannot load route", err)
		}
		fmt.Printf("🚗 %s: %s\n", r.Key, route.Describe(r))

		provider, err := newProvider(cfg)
		if err != nil {
			contract.LogFatal("Cannot build directions provider", err)
		}

		deps := core.SampleDeps{
			Provider: provider,
			Store:    seriesstore.New(cfg.DataDir),
		}
		if !cfg.NoPlot {
			deps.Plotter = plot.New(cfg.DataDir)
		}
		if cfg.RunsBackend != schema.NoneBackend {
			deps.Runs = runstore.Manager
		}

		result, err := core.ExecuteSampleRun(rootCtx, cfg, r, deps)
		if result != nil {
			if werr := outwriter.NewOutWriter().WriteRunResult(*result, cfg); werr != nil {
				contract.LogWarn("Cannot print run summary", werr)
			}
		}
		if err != nil {
			contract.LogFatal("Cannot complete sample run", err)
		}
	},
}
