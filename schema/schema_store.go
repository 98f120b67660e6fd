package schema

import "time"

// RunRecord represents a row from the trafficprofile_runs table.
type RunRecord struct {
	RunID           int64      `json:"run_id"`
	RouteKey        string     `json:"route_key"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	IntervalMinutes int32      `json:"interval_minutes"`
	PlannedTicks    int32      `json:"planned_ticks"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	SampleCount     int32      `json:"sample_count"`
	Status          RunStatus  `json:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
}

// SampleRecord represents a row from the trafficprofile_samples table.
type SampleRecord struct {
	RunID           int64     `json:"run_id"`
	Seq             int32     `json:"seq"`
	RouteKey        string    `json:"route_key"`
	DayOfWeek       int32     `json:"day_of_week"`
	SampleTime      time.Time `json:"sample_time"`
	DurationMinutes float64   `json:"duration_minutes"`
}
