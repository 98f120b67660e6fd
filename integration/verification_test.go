//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// TestSampleAppendsAcrossRuns checks the header is written once and rows accumulate.
func TestSampleAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "home_work")
	seriesPath := filepath.Join(dir, "traffic_home_work.csv")

	out, err := runCommand(t, dir, nil, staticSampleArgs(routePath, "--no-plot")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Calculating trip duration over the next 2 minutes at 2 minute intervals.")

	lines := readLines(t, seriesPath)
	require.Len(t, lines, 2)
	assert.Equal(t, "day_of_week,datetime,duration_minutes", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",25"), lines[1])

	_, err = runCommand(t, dir, nil, staticSampleArgs(routePath, "--no-plot")...)
	require.NoError(t, err)
	assert.Len(t, readLines(t, seriesPath), 3)

	_, err = os.Stat(seriesPath + ".lock")
	require.NoError(t, err)
}

// TestSampleZeroTicksWritesHeader checks that a run shorter than one interval is a no-op with a header.
func TestSampleZeroTicksWritesHeader(t *testing.T) {
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "short")

	_, err := runCommand(t, dir, nil, "sample", routePath, "--minutes", "5", "--interval", "10",
		"--provider", "static", "--no-plot")
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(dir, "traffic_short.csv"))
	assert.Equal(t, []string{"day_of_week,datetime,duration_minutes"}, lines)
}

// TestSampleRejectsHoursAndMinutes checks the configuration error names its stage.
func TestSampleRejectsHoursAndMinutes(t *testing.T) {
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "home_work")

	out, err := runCommand(t, dir, nil, "sample", routePath, "--hours", "1", "--minutes", "5", "--provider", "static")
	require.Error(t, err)
	assert.Contains(t, out, "not both")

	_, statErr := os.Stat(filepath.Join(dir, "traffic_home_work.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

// TestHistoryPlotExport walks the read-only commands over a persisted series.
func TestHistoryPlotExport(t *testing.T) {
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "home_work")

	out, err := runCommand(t, dir, nil, staticSampleArgs(routePath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "traffic_profile_home_work_")

	out, err = runCommand(t, dir, nil, "history", "home_work", "--output", "json")
	require.NoError(t, err)
	var result struct {
		RouteKey string `json:"route_key"`
		Rows     []any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "home_work", result.RouteKey)
	assert.Len(t, result.Rows, 1)

	out, err = runCommand(t, dir, nil, "plot", "home_work", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Chart written to")

	_, err = runCommand(t, dir, nil, "export", routePath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "traffic_home_work.parquet"))
	require.NoError(t, err)
}

// TestRunsWithSQLite records runs in the default SQLite store.
func TestRunsWithSQLite(t *testing.T) {
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "home_work")
	env := []string{"TRAFFICPROFILE_RUNS_BACKEND=sqlite"}

	_, err := runCommand(t, dir, env, staticSampleArgs(routePath, "--no-plot")...)
	require.NoError(t, err)

	out, err := runCommand(t, dir, env, "runs", "list", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"route_key": "home_work"`)
	assert.Contains(t, out, `"status": "completed"`)

	_, err = runCommand(t, dir, env, "runs", "clear")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, ".trafficprofile_runs.db"))
	assert.True(t, os.IsNotExist(statErr))
}
