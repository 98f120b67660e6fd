// Package core has core logic for sampling, persisting and plotting route durations.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/sirupsen/logrus"
)

// SampleDeps are the collaborators of a sample run. The command layer builds
// them once and hands them in.
type SampleDeps struct {
	Provider contract.DirectionsProvider
	Store    contract.SeriesStore
	Plotter  contract.Plotter      // nil disables charting
	Runs     contract.StoreManager // nil disables run tracking
	Sleeper  contract.Sleeper      // nil waits on wall-clock time
	Clock    contract.Clock        // nil reads the system clock
	Out      io.Writer             // progress output, defaults to stdout
}

// ExecuteSampleRun samples route for the configured duration, persists the
// series and renders its chart. Nothing is persisted when sampling fails.
func ExecuteSampleRun(ctx context.Context, cfg *contract.Config, route schema.Route, deps SampleDeps) (*schema.RunResult, error) {
	if deps.Provider == nil || deps.Store == nil {
		return nil, errors.New("sample run needs a provider and a series store")
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	clock, err := NewSampleClock(cfg.Params, deps.Sleeper)
	if err != nil {
		return nil, err
	}
	planned := clock.TickCount()

	result := &schema.RunResult{
		Route:     route,
		Params:    cfg.Params,
		Planned:   planned,
		StartedAt: deps.Clock.Now(),
	}

	printStartBanner(out, cfg.Params)
	tracker := beginTracking(deps.Runs, route, cfg.Params, planned, result.StartedAt)

	progress := newProgressPrinter(out, cfg.Precision)
	sampler := NewSampler(deps.Provider, clock, deps.Clock).OnTick(progress.Tick)
	buf, err := sampler.Collect(ctx, route.Config)
	progress.Done()
	if err != nil {
		tracker.end(deps.Clock.Now(), schema.FailedStatus, nil, err)
		return nil, err
	}
	result.Samples = buf.Samples()

	result.SeriesFile, err = deps.Store.Persist(route.Key, result.Samples)
	if err != nil {
		tracker.end(deps.Clock.Now(), schema.FailedStatus, nil, err)
		return nil, err
	}

	if deps.Plotter != nil {
		result.ChartFile, err = deps.Plotter.Render(route.Key, result.Samples)
		if err != nil {
			// The series is already on disk, so the run still counts
			result.FinishedAt = deps.Clock.Now()
			tracker.end(result.FinishedAt, schema.CompletedStatus, result.Samples, err)
			return result, err
		}
	}

	result.FinishedAt = deps.Clock.Now()
	tracker.end(result.FinishedAt, schema.CompletedStatus, result.Samples, nil)
	return result, nil
}

// printStartBanner announces the run before the first query.
func printStartBanner(w io.Writer, params schema.RunParameters) {
	_, _ = fmt.Fprintf(w, "Calculating trip duration over the next %d minutes at %d minute intervals.\n",
		params.TotalMinutes, params.IntervalMinutes)
}

// runTracker records a run in the run store. Failures only warn, so the
// series file stays the source of truth.
type runTracker struct {
	store contract.RunStore
	runID int64
}

func beginTracking(mgr contract.StoreManager, route schema.Route, params schema.RunParameters, planned int, start time.Time) *runTracker {
	if mgr == nil {
		return &runTracker{}
	}
	store := mgr.GetRunStore()
	if store == nil {
		return &runTracker{}
	}
	runID, err := store.BeginRun(route, params, planned, start)
	if err != nil {
		contract.LogWarn("Cannot record run start", err)
		return &runTracker{}
	}
	return &runTracker{store: store, runID: runID}
}

func (rt *runTracker) end(at time.Time, status schema.RunStatus, samples []schema.Sample, runErr error) {
	if rt.store == nil {
		return
	}
	if err := rt.store.EndRun(rt.runID, at, status, samples, runErr); err != nil {
		contract.LogWarn("Cannot record run end", err)
		return
	}
	logrus.WithFields(logrus.Fields{"run_id": rt.runID, "status": status}).Debug("run recorded")
}
