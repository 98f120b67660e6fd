package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// ProviderKind represents the directions provider used for sampling.
	ProviderKind string

	// RunStatus represents the terminal state of a sample run.
	RunStatus string

	// DelayLabel classifies a sample against the route's best observed duration.
	DelayLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All directions providers supported.
const (
	GoogleProvider ProviderKind = "google" // default
	StaticProvider ProviderKind = "static"
)

// All run statuses recorded by the run store.
const (
	RunningStatus   RunStatus = "running"
	CompletedStatus RunStatus = "completed"
	FailedStatus    RunStatus = "failed"
)

// Delay labels, ordered from best to worst.
const (
	FreeDelay     DelayLabel = "Free"
	ModerateDelay DelayLabel = "Moderate"
	HeavyDelay    DelayLabel = "Heavy"
	SevereDelay   DelayLabel = "Severe"
)

// Series file layout.
const (
	SeriesFilePrefix = "traffic_"
	SeriesFileExt    = ".csv"
	ChartFilePrefix  = "traffic_profile_"
	ChartFileExt     = ".png"

	// SeriesTimeLayout keeps microseconds so rows sort and parse back exactly.
	SeriesTimeLayout = "2006-01-02 15:04:05.000000"

	// ChartStampLayout is the YYYY-MM-DD-HHMM stamp embedded in chart names.
	ChartStampLayout = "2006-01-02-1504"
)

// SeriesHeader is the fixed column order of a series file.
var SeriesHeader = []string{"day_of_week", "datetime", "duration_minutes"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidProviders lists all valid directions providers.
var ValidProviders = map[ProviderKind]struct{}{
	GoogleProvider: {},
	StaticProvider: {},
}
