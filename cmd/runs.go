package cmd

import (
	"fmt"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/outwriter"
	"github.com/huangsam/trafficprofile/internal/runstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsConfigSetup validates the route-independent config for runs commands.
func runsConfigSetup(cmd *cobra.Command, args []string) error {
	if err := loadInput(cmd, args); err != nil {
		return err
	}
	if err := contract.ProcessCommonInputs(cfg, input); err != nil {
		return err
	}
	contract.ConfigureLogging(cfg.LogLevel)
	return nil
}

// runsSetup loads minimal configuration and opens the run store.
// This is used by commands that need run data without a route argument.
func runsSetup(cmd *cobra.Command, args []string) error {
	if err := runsConfigSetup(cmd, args); err != nil {
		return err
	}
	if cfg.RunsBackend == schema.NoneBackend {
		return contract.NewConfigError("runs-backend", "run tracking is disabled; set --runs-backend to sqlite, mysql or postgresql")
	}
	if err := initRunTracking(); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}
	return nil
}

// runsCmd focused on run tracking data management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by route commands. This avoids requiring a route
// argument for simple database operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the sample run tracking database",
	Long: `Manage the database that records every sample run.

When --runs-backend is set, each sample run stores:
- Run metadata (route, interval, planned ticks, start and end, status)
- Every collected sample with its sequence number

The per-route CSV file stays the source of truth. Tracking failures are
reported as warnings and never fail a run.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run tracking statistics
  list    - List recorded runs
  export  - Export runs and samples to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  trafficprofile runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  trafficprofile runs export --runs-backend sqlite --output-file runs`,
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run tracking statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runstore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run tracking status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print run tracking status", err)
		}
	},
}

// runsListCmd lists recorded runs.
var runsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every recorded sample run",
	Args:    cobra.NoArgs,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := runstore.Manager.GetRunStore().GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Failed to print runs", err)
		}
	},
}

// runsClearCmd clears the run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run tracking data",
	Long: `Delete all recorded runs and their samples.

For SQLite the database file is removed. For MySQL and PostgreSQL the
tracking tables are dropped. Series CSV files are never touched.

WARNING: This action cannot be undone. Consider exporting data first.`,
	Args:    cobra.NoArgs,
	PreRunE: runsConfigSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearRuns(cfg.RunsBackend, cfg.RunsConnString(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run tracking data cleared successfully.")
	},
}

// runsExportCmd exports run data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and samples to Parquet",
	Long: `Export all recorded runs and samples to two Parquet files,
<output-file>.runs.parquet and <output-file>.samples.parquet.

Requires: --output-file parameter

Examples:
  trafficprofile runs export --runs-backend sqlite --output-file runs
  duckdb -c "SELECT route_key, count(*) FROM read_parquet('runs.runs.parquet') GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunsExport(runstore.Manager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.
This does not open the store first, so it also works on a fresh database.

Examples:
  # Migrate to latest version (default)
  trafficprofile runs migrate --runs-backend sqlite

  # Rollback to initial state
  trafficprofile runs migrate --runs-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: runsConfigSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunsBackend, cfg.RunsConnString(), targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
