package core

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	tpparquet "github.com/huangsam/trafficprofile/internal/parquet"
	"github.com/huangsam/trafficprofile/internal/plot"
	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesAt(start time.Time, step time.Duration, minutes ...float64) []schema.Sample {
	out := make([]schema.Sample, len(minutes))
	for i, m := range minutes {
		out[i] = schema.NewSample(start.Add(time.Duration(i)*step), m)
	}
	return out
}

func TestSplitRuns(t *testing.T) {
	morning := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	evening := morning.Add(9 * time.Hour)
	samples := append(seriesAt(morning, 2*time.Minute, 20, 21, 22), seriesAt(evening, 2*time.Minute, 30, 31)...)

	runs := SplitRuns(samples, LastRunGap(2))
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 3)
	assert.Len(t, runs[1], 2)

	// Time going backwards also starts a new run
	backwards := append(seriesAt(evening, time.Minute, 1, 2), seriesAt(morning, time.Minute, 3)...)
	assert.Len(t, SplitRuns(backwards, time.Hour), 2)

	assert.Empty(t, SplitRuns(nil, time.Minute))
	assert.Len(t, SplitRuns(samples[:1], time.Minute), 1)
}

func TestLastRunGap(t *testing.T) {
	assert.Equal(t, 10*time.Minute, LastRunGap(5))
	assert.Equal(t, 4*time.Minute, LastRunGap(0))
}

func TestLoadHistory(t *testing.T) {
	store := seriesstore.New(t.TempDir())
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	_, err := store.Persist("home_work", seriesAt(start, 2*time.Minute, 20, 25, 30))
	require.NoError(t, err)

	result, err := LoadHistory(context.Background(), store, "home_work")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.Count)
	assert.InDelta(t, 25.0, result.Summary.MeanMinutes, 1e-9)
	assert.Equal(t, schema.SevereDelay, result.Rows[2].Label)

	_, err = LoadHistory(context.Background(), store, "unknown")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExecutePlot(t *testing.T) {
	dir := t.TempDir()
	store := seriesstore.New(dir)
	morning := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	evening := time.Date(2024, 3, 4, 17, 10, 0, 0, time.Local)
	_, err := store.Persist("home_work", seriesAt(morning, 2*time.Minute, 20, 21))
	require.NoError(t, err)
	_, err = store.Persist("home_work", seriesAt(evening, 2*time.Minute, 30, 35))
	require.NoError(t, err)

	path, err := ExecutePlot(context.Background(), store, plot.New(dir), "home_work", 2, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "traffic_profile_home_work_2024-03-04-1710.png"), path)

	path, err = ExecutePlot(context.Background(), store, plot.New(dir), "home_work", 2, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "traffic_profile_home_work_2024-03-04-0800.png"), path)

	_, err = store.Persist("empty", nil)
	require.NoError(t, err)
	_, err = ExecutePlot(context.Background(), store, plot.New(dir), "empty", 2, false)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestExecuteExport(t *testing.T) {
	dir := t.TempDir()
	store := seriesstore.New(dir)
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)
	_, err := store.Persist("home_work", seriesAt(start, 2*time.Minute, 20, 21, 22))
	require.NoError(t, err)

	path, n, err := ExecuteExport(context.Background(), store, "home_work", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, filepath.Join(dir, "traffic_home_work.parquet"), path)

	rows, err := parquet.ReadFile[tpparquet.Sample](path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "home_work", rows[0].RouteKey)
	assert.InDelta(t, 22.0, rows[2].DurationMinutes, 1e-9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ExecuteExport(ctx, store, "home_work", "")
	assert.ErrorIs(t, err, context.Canceled)
}
