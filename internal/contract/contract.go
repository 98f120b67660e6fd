// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/trafficprofile/schema"
)

// DirectionsProvider returns a driving duration estimate between two locations.
// This allows the sampling loop to be tested without calling a real directions service.
type DirectionsProvider interface {
	// Name identifies the provider in logs and run records.
	Name() string

	// DurationInTraffic returns the estimated trip duration in minutes for a departure at departAt.
	DurationInTraffic(ctx context.Context, origin, destination string, departAt time.Time) (float64, error)
}

// Sleeper blocks between ticks. It is the only component that waits on wall-clock time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Clock returns the current time for sample timestamps.
type Clock interface {
	Now() time.Time
}

// SeriesStore persists and loads a route's cumulative sample history.
type SeriesStore interface {
	// Persist writes samples for routeKey, creating the series with a header
	// on first use and appending without a header afterwards. It returns the file path.
	Persist(routeKey string, samples []schema.Sample) (string, error)

	// Load returns every persisted sample for routeKey in file order.
	Load(routeKey string) ([]schema.Sample, error)

	// Path returns where the series for routeKey lives.
	Path(routeKey string) string
}

// Plotter renders one run's series into an image artifact and returns its path.
type Plotter interface {
	Render(routeKey string, samples []schema.Sample) (string, error)
}

// RunStore defines the interface for tracking sample runs and their samples.
type RunStore interface {
	// BeginRun creates a new run record and returns its unique ID
	BeginRun(route schema.Route, params schema.RunParameters, planned int, startTime time.Time) (int64, error)

	// EndRun records the terminal state of a run together with its samples
	EndRun(runID int64, endTime time.Time, status schema.RunStatus, samples []schema.Sample, runErr error) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllSamples returns every recorded sample ordered by run and sequence
	GetAllSamples() ([]schema.SampleRecord, error)

	// Close closes the underlying connection
	Close() error
}

// StoreManager defines the interface for reaching the run store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}
