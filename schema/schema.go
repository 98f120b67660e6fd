// Package schema has configs, models and constants for all parts of trafficprofile.
package schema

import "time"

// Sample is one measurement of a route's driving duration.
// It is immutable once created by the sampler.
type Sample struct {
	DayOfWeek       int       `json:"day_of_week"`      // 0 = Monday ... 6 = Sunday
	Timestamp       time.Time `json:"datetime"`         // Departure time the estimate was requested for
	DurationMinutes float64   `json:"duration_minutes"` // Duration in traffic, in minutes
}

// RouteConfig is an origin/destination pair loaded from a route file.
type RouteConfig struct {
	Origin      string `yaml:"origin" json:"origin"`
	Destination string `yaml:"destination" json:"destination"`
}

// Route couples a RouteConfig with the key derived from its source file.
type Route struct {
	Key    string      `json:"key"`
	Source string      `json:"source"`
	Config RouteConfig `json:"config"`
}

// RunParameters describes how long to sample and how often.
type RunParameters struct {
	TotalMinutes    int `json:"total_minutes"`
	IntervalMinutes int `json:"interval_minutes"`
}

// Interval returns the wait between ticks as a duration.
func (p RunParameters) Interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// RunResult is what a sample run hands back to the caller once the loop has closed.
type RunResult struct {
	Route      Route         `json:"route"`
	Params     RunParameters `json:"params"`
	Planned    int           `json:"planned"`
	Samples    []Sample      `json:"samples"`
	SeriesFile string        `json:"series_file"`
	ChartFile  string        `json:"chart_file,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}
