package runstore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/trafficprofile/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func testRoute() schema.Route {
	return schema.Route{
		Key:    "home_work",
		Source: "home_work.yaml",
		Config: schema.RouteConfig{Origin: "1 Main St", Destination: "200 Office Park"},
	}
}

func TestRunLifecycle(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Date(2024, 3, 4, 8, 0, 0, 123000000, time.UTC)
	params := schema.RunParameters{TotalMinutes: 6, IntervalMinutes: 2}

	runID, err := store.BeginRun(testRoute(), params, 3, start)
	require.NoError(t, err)
	assert.Positive(t, runID)

	samples := []schema.Sample{
		schema.NewSample(start, 20),
		schema.NewSample(start.Add(2*time.Minute), 21.5),
		schema.NewSample(start.Add(4*time.Minute), 23),
	}
	end := start.Add(5 * time.Minute)
	require.NoError(t, store.EndRun(runID, end, schema.CompletedStatus, samples, nil))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, runID, r.RunID)
	assert.Equal(t, "home_work", r.RouteKey)
	assert.Equal(t, "1 Main St", r.Origin)
	assert.Equal(t, "200 Office Park", r.Destination)
	assert.Equal(t, int32(2), r.IntervalMinutes)
	assert.Equal(t, int32(3), r.PlannedTicks)
	assert.Equal(t, int32(3), r.SampleCount)
	assert.Equal(t, schema.CompletedStatus, r.Status)
	assert.True(t, r.StartTime.Equal(start))
	require.NotNil(t, r.EndTime)
	assert.True(t, r.EndTime.Equal(end))
	assert.Nil(t, r.ErrorMessage)

	recs, err := store.GetAllSamples()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, int32(i+1), rec.Seq)
		assert.Equal(t, "home_work", rec.RouteKey)
		assert.True(t, rec.SampleTime.Equal(samples[i].Timestamp))
		assert.InDelta(t, samples[i].DurationMinutes, rec.DurationMinutes, 1e-9)
	}

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 3, status.TotalSamples)
	assert.Equal(t, int64(1), status.TableSizes[runsTable])
	assert.True(t, status.OldestRunTime.Equal(start))
}

func TestEndRunFailed(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Now().UTC()

	runID, err := store.BeginRun(testRoute(), schema.RunParameters{TotalMinutes: 10, IntervalMinutes: 2}, 5, start)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(runID, start.Add(time.Minute), schema.FailedStatus, nil, errors.New("quota exceeded")))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.FailedStatus, runs[0].Status)
	require.NotNil(t, runs[0].ErrorMessage)
	assert.Equal(t, "quota exceeded", *runs[0].ErrorMessage)
	assert.Equal(t, int32(0), runs[0].SampleCount)
}

func TestBeginRunWithoutEndIsRunning(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.BeginRun(testRoute(), schema.RunParameters{TotalMinutes: 4, IntervalMinutes: 2}, 2, time.Now())
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunningStatus, runs[0].Status)
	assert.Nil(t, runs[0].EndTime)
}

func TestEndRunUnknownID(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun(42, time.Now(), schema.CompletedStatus, nil, nil)
	assert.ErrorContains(t, err, "run 42 not found")
}

func TestNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginRun(testRoute(), schema.RunParameters{TotalMinutes: 2, IntervalMinutes: 2}, 1, time.Now())
	require.NoError(t, err)
	assert.Zero(t, id)
	require.NoError(t, store.EndRun(id, time.Now(), schema.CompletedStatus, nil, nil))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
	require.NoError(t, store.Close())
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewRunStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`trafficprofile_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"trafficprofile_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"trafficprofile_samples"`, quoteTableName(samplesTable, schema.SQLiteBackend))
	assert.Panics(t, func() { quoteTableName("runs; DROP TABLE x", schema.SQLiteBackend) })
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("trafficprofile_runs"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1runs"))
	assert.Error(t, validateTableName("runs`"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}

func TestTimeScanner(t *testing.T) {
	var ts timeScanner
	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.valid)

	now := time.Now()
	require.NoError(t, ts.Scan(now))
	assert.True(t, ts.valid)
	assert.True(t, ts.t.Equal(now))

	require.NoError(t, ts.Scan([]byte("2024-03-04T08:00:00.5Z")))
	assert.Equal(t, 500*time.Millisecond, time.Duration(ts.t.Nanosecond()))

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

func TestClearRunsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)

	require.NoError(t, ClearRuns(schema.SQLiteBackend, path, ""))
	assert.NoFileExists(t, path)

	// Clearing twice is fine
	require.NoError(t, ClearRuns(schema.SQLiteBackend, path, ""))
	assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
}

func TestMigrateRunsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	var out bytes.Buffer
	require.NoError(t, migrateRuns(&out, schema.SQLiteBackend, path, -1))
	assert.Contains(t, out.String(), "Successfully migrated from version 0 to version 2")

	out.Reset()
	require.NoError(t, migrateRuns(&out, schema.SQLiteBackend, path, -1))
	assert.Contains(t, out.String(), "No migration needed")

	out.Reset()
	require.NoError(t, migrateRuns(&out, schema.SQLiteBackend, path, 1))
	assert.Contains(t, out.String(), "to version 1")

	out.Reset()
	require.NoError(t, migrateRuns(&out, schema.SQLiteBackend, path, 0))
	assert.Contains(t, out.String(), "rolled back")

	assert.Error(t, MigrateRuns(schema.NoneBackend, "", -1))
}

func TestMigratedSchemaIsUsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrated.db")
	require.NoError(t, migrateRuns(&bytes.Buffer{}, schema.SQLiteBackend, path, -1))

	store, err := NewRunStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.BeginRun(testRoute(), schema.RunParameters{TotalMinutes: 2, IntervalMinutes: 2}, 1, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id, time.Now(), schema.CompletedStatus, []schema.Sample{schema.NewSample(time.Now(), 10)}, nil))
}
