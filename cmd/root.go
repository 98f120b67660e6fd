package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/runstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute replaces it with
// one that is canceled on SIGINT or SIGTERM.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "trafficprofile",
	Short: "Sample a route's driving duration over time and chart it.",
	Long: `Trafficprofile asks a directions service how long a drive takes at a fixed
interval, appends every sample to a per-route CSV file and charts the run.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in the .env file and ENV variables if set.
func initConfig() {
	// A missing .env file is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Cannot load .env file", err)
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TRAFFICPROFILE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("data-dir", ".")
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("interval", contract.DefaultIntervalMinutes)
	viper.SetDefault("provider", schema.GoogleProvider)
	viper.SetDefault("static-minutes", contract.DefaultStaticMinutes)
	viper.SetDefault("runs-backend", "")
	viper.SetDefault("runs-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".trafficprofile") // Name of config file (without extension)
		viper.SetConfigType("yaml")            // We'll use YAML format
		viper.AddConfigPath(".")               // Look in the current directory
		viper.AddConfigPath("$HOME")           // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// loadInput merges defaults, file, env and flags into the raw input struct.
func loadInput(cmd *cobra.Command, args []string) error {
	// 1. Bind this command's local flags. Root flags are bound in init.
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("cannot bind %s flags: %w", cmd.Name(), err)
	}

	// 2. Read config file.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 3. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 4. Handle positional arguments and flag presence (which Viper doesn't do).
	if len(args) == 1 {
		input.RoutePathStr = args[0]
	}
	input.HoursSet = viper.IsSet("hours")
	input.MinutesSet = viper.IsSet("minutes")
	return nil
}

// sharedSetup unmarshals config and runs validation for the route commands.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := loadInput(cmd, args); err != nil {
		return err
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.ConfigureLogging(cfg.LogLevel)
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// initRunTracking opens the configured run store on the global manager.
func initRunTracking() error {
	if cfg.RunsBackend == schema.NoneBackend {
		return nil
	}
	if err := runstore.InitTracking(cfg.RunsBackend, cfg.RunsConnString()); err != nil {
		return err
	}
	return nil
}

// Execute runs the root command until it finishes or the process is signaled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx
	contract.OnFatal(runstore.CloseTracking)
	defer runstore.CloseTracking()
	return rootCmd.ExecuteContext(ctx)
}
