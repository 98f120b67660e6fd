// Package parquet provides data structures and functions for exporting traffic
// samples and run records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/trafficprofile/schema"
	"github.com/parquet-go/parquet-go"
)

// Sample is one persisted series row.
// This struct maps to a row of a traffic_<route_key>.csv file.
type Sample struct {
	// RouteKey is the route the sample belongs to
	RouteKey string `parquet:"route_key,snappy,dict"`

	// DayOfWeek is 0 for Monday through 6 for Sunday
	DayOfWeek int32 `parquet:"day_of_week,snappy"`

	// Datetime is the departure time the estimate was requested for
	Datetime time.Time `parquet:"datetime,snappy"`

	// DurationMinutes is the duration in traffic
	DurationMinutes float64 `parquet:"duration_minutes,snappy"`
}

// Run represents a single tracked sample run.
// This struct maps to the trafficprofile_runs database table.
type Run struct {
	RunID           int64      `parquet:"run_id,snappy"`
	RouteKey        string     `parquet:"route_key,snappy,dict"`
	Origin          string     `parquet:"origin,snappy"`
	Destination     string     `parquet:"destination,snappy"`
	IntervalMinutes int32      `parquet:"interval_minutes,snappy"`
	PlannedTicks    int32      `parquet:"planned_ticks,snappy"`
	StartTime       time.Time  `parquet:"start_time,snappy"`
	EndTime         *time.Time `parquet:"end_time,optional,snappy"`
	SampleCount     int32      `parquet:"sample_count,snappy"`
	Status          string     `parquet:"status,snappy,dict"`
	ErrorMessage    *string    `parquet:"error_message,optional,snappy"`
}

// RunSample represents a sample recorded against a tracked run.
// This struct maps to the trafficprofile_samples database table.
type RunSample struct {
	RunID           int64     `parquet:"run_id,snappy"`
	Seq             int32     `parquet:"seq,snappy"`
	RouteKey        string    `parquet:"route_key,snappy,dict"`
	DayOfWeek       int32     `parquet:"day_of_week,snappy"`
	SampleTime      time.Time `parquet:"sample_time,snappy"`
	DurationMinutes float64   `parquet:"duration_minutes,snappy"`
}

// writeParquet writes rows to outputPath with a schema derived from T's struct tags.
func writeParquet[T any](data []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSamplesParquet writes series rows to a Parquet file.
func WriteSamplesParquet(data []Sample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes run records to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunSamplesParquet writes run sample records to a Parquet file.
func WriteRunSamplesParquet(data []RunSample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSamples converts a route's series into Parquet rows.
func ConvertSamples(routeKey string, samples []schema.Sample) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = Sample{
			RouteKey:        routeKey,
			DayOfWeek:       int32(s.DayOfWeek),
			Datetime:        s.Timestamp,
			DurationMinutes: s.DurationMinutes,
		}
	}
	return out
}

// ConvertRunRecords converts run records into Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:           r.RunID,
			RouteKey:        r.RouteKey,
			Origin:          r.Origin,
			Destination:     r.Destination,
			IntervalMinutes: r.IntervalMinutes,
			PlannedTicks:    r.PlannedTicks,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			SampleCount:     r.SampleCount,
			Status:          string(r.Status),
			ErrorMessage:    r.ErrorMessage,
		}
	}
	return out
}

// ConvertSampleRecords converts run sample records into Parquet rows.
func ConvertSampleRecords(records []schema.SampleRecord) []RunSample {
	out := make([]RunSample, len(records))
	for i, r := range records {
		out[i] = RunSample{
			RunID:           r.RunID,
			Seq:             r.Seq,
			RouteKey:        r.RouteKey,
			DayOfWeek:       r.DayOfWeek,
			SampleTime:      r.SampleTime,
			DurationMinutes: r.DurationMinutes,
		}
	}
	return out
}
