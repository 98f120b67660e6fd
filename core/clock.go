package core

import (
	"context"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
)

// SampleClock decides how many samples a run takes and waits between them.
type SampleClock struct {
	params  schema.RunParameters
	sleeper contract.Sleeper
}

// NewSampleClock validates params and returns a clock that waits through sleeper.
func NewSampleClock(params schema.RunParameters, sleeper contract.Sleeper) (*SampleClock, error) {
	if params.TotalMinutes <= 0 {
		return nil, contract.NewConfigError("duration", "total duration must be greater than 0 minutes (received %d)", params.TotalMinutes)
	}
	if params.IntervalMinutes <= 0 {
		return nil, contract.NewConfigError("interval", "must be greater than 0 minutes (received %d)", params.IntervalMinutes)
	}
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	return &SampleClock{params: params, sleeper: sleeper}, nil
}

// TickCount is floor(total / interval). Zero is a valid, empty run.
func (c *SampleClock) TickCount() int {
	return c.params.TotalMinutes / c.params.IntervalMinutes
}

// Interval returns the wait between two ticks.
func (c *SampleClock) Interval() time.Duration {
	return c.params.Interval()
}

// Wait blocks for one interval or until ctx is done.
func (c *SampleClock) Wait(ctx context.Context) error {
	return c.sleeper.Sleep(ctx, c.Interval())
}

// RealSleeper waits on wall-clock time.
type RealSleeper struct{}

// Sleep implements contract.Sleeper.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now implements contract.Clock.
func (SystemClock) Now() time.Time { return time.Now() }

var (
	_ contract.Sleeper = RealSleeper{}
	_ contract.Clock   = SystemClock{}
)
