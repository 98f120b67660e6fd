package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/trafficprofile/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultIntervalMinutes = 2
	DefaultPrecision       = 1
	DefaultStaticMinutes   = 20.0
	DefaultLogLevel        = "warn"
)

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	RoutePath string
	RouteKey  string
	Params    schema.RunParameters

	DataDir    string
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	NoPlot     bool
	AllHistory bool

	Provider      schema.ProviderKind
	APIKey        string // Please use env var as this is plaintext
	StaticMinutes float64

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	LogLevel  logrus.Level
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args and flag presence, so no tag
	RoutePathStr string
	HoursSet     bool
	MinutesSet   bool

	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir       string `mapstructure:"data-dir"`
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Precision     int    `mapstructure:"precision"`
	Width         int    `mapstructure:"width"`
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`
	Color         string `mapstructure:"color"`
	LogLevel      string `mapstructure:"log-level"`

	// --- Fields from sampleCmd.Flags() ---
	Hours         int     `mapstructure:"hours"`
	Minutes       int     `mapstructure:"minutes"`
	Interval      int     `mapstructure:"interval"`
	NoPlot        bool    `mapstructure:"no-plot"`
	Provider      string  `mapstructure:"provider"`
	APIKey        string  `mapstructure:"api-key"`
	StaticMinutes float64 `mapstructure:"static-minutes"`

	// --- Fields from plotCmd.Flags() ---
	All bool `mapstructure:"all"`
}

// ProcessAndValidate performs parsing and validation shared by every route command
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessCommonInputs(cfg, input); err != nil {
		return err
	}
	return resolveRoutePath(cfg, input)
}

// ProcessCommonInputs validates the inputs that do not depend on a route.
// The runs commands use it on its own.
func ProcessCommonInputs(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// RunsConnString returns the connection string for the configured run store.
// SQLite defaults to a database file inside the data directory.
func (c *Config) RunsConnString() string {
	if c.RunsBackend == schema.SQLiteBackend && c.RunsDBConnect == "" {
		return GetRunsDBFilePath(c.DataDir)
	}
	return c.RunsDBConnect
}

// ProcessSampleInputs validates the sampling-only inputs on top of ProcessAndValidate.
func ProcessSampleInputs(cfg *Config, input *ConfigRawInput) error {
	params, err := ResolveRunParameters(input.Hours, input.Minutes, input.Interval, input.HoursSet, input.MinutesSet)
	if err != nil {
		return err
	}
	cfg.Params = params
	cfg.NoPlot = input.NoPlot

	cfg.Provider = schema.ProviderKind(strings.ToLower(strings.TrimSpace(input.Provider)))
	if cfg.Provider == "" {
		cfg.Provider = schema.GoogleProvider
	}
	if _, ok := schema.ValidProviders[cfg.Provider]; !ok {
		return NewConfigError("provider", "'%s' must be google or static", input.Provider)
	}

	cfg.APIKey = strings.TrimSpace(input.APIKey)
	if cfg.Provider == schema.GoogleProvider && cfg.APIKey == "" {
		return NewConfigError("api-key", "required for the google provider (set TRAFFICPROFILE_API_KEY)")
	}

	cfg.StaticMinutes = input.StaticMinutes
	if cfg.Provider == schema.StaticProvider && cfg.StaticMinutes <= 0 {
		return NewConfigError("static-minutes", "must be greater than 0 (received %v)", input.StaticMinutes)
	}

	return nil
}

// ResolveRunParameters turns the mutually exclusive hours/minutes inputs into RunParameters.
// Exactly one of hours or minutes must be set; interval and the resulting total must be positive.
func ResolveRunParameters(hours, minutes, interval int, hoursSet, minutesSet bool) (schema.RunParameters, error) {
	var params schema.RunParameters

	switch {
	case hoursSet && minutesSet:
		return params, NewConfigError("duration", "use either --hours or --minutes, not both")
	case hoursSet:
		params.TotalMinutes = hours * 60
	case minutesSet:
		params.TotalMinutes = minutes
	default:
		return params, NewConfigError("duration", "one of --hours or --minutes is required")
	}

	if params.TotalMinutes <= 0 {
		return params, NewConfigError("duration", "total duration must be greater than 0 minutes (received %d)", params.TotalMinutes)
	}
	if interval <= 0 {
		return params, NewConfigError("interval", "must be greater than 0 minutes (received %d)", interval)
	}
	params.IntervalMinutes = interval

	return params, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return NewConfigError("runs-db-connect", "required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return NewConfigError("runs-db-connect", "MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return NewConfigError("runs-db-connect", "MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return NewConfigError("runs-db-connect", "required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return NewConfigError("runs-db-connect", "PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return NewConfigError("runs-db-connect", "PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes a backend name, treating an empty value as the none backend.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if backend == "" {
		return schema.NoneBackend, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", NewConfigError("runs-backend", "'%s' must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates the run tracking backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.AllHistory = input.All

	colorStr := input.Color
	if colorStr == "" {
		colorStr = "yes"
	}
	colors, err := ParseBoolString(colorStr)
	if err != nil {
		return &ConfigurationError{Field: "color", Reason: "expected yes/no/true/false/1/0", Err: err}
	}
	cfg.UseColors = colors

	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return &ConfigurationError{Field: "log-level", Reason: "unknown level", Err: err}
	}
	cfg.LogLevel = level

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 3 {
		return NewConfigError("precision", "must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return NewConfigError("output", "'%s' must be text, csv, json, parquet", input.Output)
	}

	// --- 2. Data directory ---
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	info, err := os.Stat(cfg.DataDir)
	if err != nil {
		return &ConfigurationError{Field: "data-dir", Reason: cfg.DataDir, Err: err}
	}
	if !info.IsDir() {
		return NewConfigError("data-dir", "%s is not a directory", cfg.DataDir)
	}

	return nil
}

// resolveRoutePath derives the route key from the positional argument.
// The argument may be a route file path or a bare route key for read-only commands.
func resolveRoutePath(cfg *Config, input *ConfigRawInput) error {
	p := strings.TrimSpace(input.RoutePathStr)
	if p == "" {
		return NewConfigError("route", "a route file or route key is required")
	}
	cfg.RoutePath = p

	key, err := RouteKeyFromPath(p)
	if err != nil {
		return err
	}
	cfg.RouteKey = key
	return nil
}

// RouteKeyFromPath returns the base name of a route source without its extension.
// A path of "routes/home_work.yaml" yields "home_work".
func RouteKeyFromPath(p string) (string, error) {
	base := filepath.Base(filepath.Clean(p))
	key := strings.TrimSuffix(base, filepath.Ext(base))
	if key == "" || key == "." || key == string(filepath.Separator) {
		return "", NewConfigError("route", "cannot derive a route key from %q", p)
	}
	if strings.ContainsAny(key, `/\`) {
		return "", NewConfigError("route", "route key %q must not contain path separators", key)
	}
	return key, nil
}

// String renders the resolved run parameters for banners and logs.
func (c *Config) String() string {
	return fmt.Sprintf("route=%s total=%dm interval=%dm provider=%s data-dir=%s",
		c.RouteKey, c.Params.TotalMinutes, c.Params.IntervalMinutes, c.Provider, c.DataDir)
}
