package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/parquet"
	"github.com/huangsam/trafficprofile/schema"
)

// ErrEmptySeries is returned when a route has no persisted samples to work with.
var ErrEmptySeries = errors.New("series has no samples")

// LoadHistory reads a route's persisted series and enriches it for output.
func LoadHistory(ctx context.Context, store contract.SeriesStore, routeKey string) (schema.HistoryResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.HistoryResult{}, err
	}
	samples, err := store.Load(routeKey)
	if err != nil {
		return schema.HistoryResult{}, err
	}
	return schema.EnrichHistory(routeKey, samples), nil
}

// SplitRuns groups a persisted series into runs. A new run starts when the
// gap to the previous sample exceeds maxGap or time goes backwards.
func SplitRuns(samples []schema.Sample, maxGap time.Duration) [][]schema.Sample {
	var runs [][]schema.Sample
	begin := 0
	for i := 1; i < len(samples); i++ {
		gap := samples[i].Timestamp.Sub(samples[i-1].Timestamp)
		if gap < 0 || gap > maxGap {
			runs = append(runs, samples[begin:i])
			begin = i
		}
	}
	if len(samples) > 0 {
		runs = append(runs, samples[begin:])
	}
	return runs
}

// LastRunGap is how far apart two samples may be and still belong to one run.
func LastRunGap(intervalMinutes int) time.Duration {
	if intervalMinutes <= 0 {
		intervalMinutes = contract.DefaultIntervalMinutes
	}
	return 2 * time.Duration(intervalMinutes) * time.Minute
}

// ExecutePlot re-renders a chart from the persisted series. It charts the most
// recent run unless all is set.
func ExecutePlot(ctx context.Context, store contract.SeriesStore, plotter contract.Plotter, routeKey string, intervalMinutes int, all bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	samples, err := store.Load(routeKey)
	if err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return "", fmt.Errorf("%s: %w", routeKey, ErrEmptySeries)
	}
	if !all {
		runs := SplitRuns(samples, LastRunGap(intervalMinutes))
		samples = runs[len(runs)-1]
	}
	return plotter.Render(routeKey, samples)
}

// ExecuteExport writes a route's persisted series to a Parquet file.
// An empty outputFile writes traffic_<key>.parquet next to the series file.
func ExecuteExport(ctx context.Context, store contract.SeriesStore, routeKey, outputFile string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	samples, err := store.Load(routeKey)
	if err != nil {
		return "", 0, err
	}
	if outputFile == "" {
		dir := filepath.Dir(store.Path(routeKey))
		outputFile = filepath.Join(dir, schema.SeriesFilePrefix+routeKey+".parquet")
	}
	if err := parquet.WriteSamplesParquet(parquet.ConvertSamples(routeKey, samples), outputFile); err != nil {
		return "", 0, &contract.IOError{Op: "export", Path: outputFile, Err: err}
	}
	return outputFile, len(samples), nil
}
