// Package cmd defines the command-line interface for trafficprofile.
package cmd

import (
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-dir", ".", "Directory holding series files and charts")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for minute columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags are bound to Viper in PreRunE, since sample and plot share --interval
	sampleCmd.Flags().Int("hours", 0, "Total sampling time in hours")
	sampleCmd.Flags().Int("minutes", 0, "Total sampling time in minutes")
	sampleCmd.Flags().Int("interval", contract.DefaultIntervalMinutes, "Minutes between samples")
	sampleCmd.Flags().Bool("no-plot", false, "Skip rendering the chart")
	sampleCmd.Flags().String("provider", string(schema.GoogleProvider), "Directions provider: google or static")
	sampleCmd.Flags().String("api-key", "", "Google Maps API key (prefer TRAFFICPROFILE_API_KEY)")
	sampleCmd.Flags().Float64("static-minutes", contract.DefaultStaticMinutes, "Duration returned by the static provider")

	plotCmd.Flags().Bool("all", false, "Chart the full history instead of the most recent run")
	plotCmd.Flags().Int("interval", contract.DefaultIntervalMinutes, "Sampling interval used to tell runs apart")

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
