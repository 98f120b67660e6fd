package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeClock is a manual clock advanced by fakeSleeper.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSleeper records waits and moves the fake clock instead of sleeping.
type fakeSleeper struct {
	clock    *fakeClock
	waits    []time.Duration
	cancel   context.CancelFunc // cancels after cancelAt waits when set
	cancelAt int
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	if s.cancel != nil && len(s.waits) >= s.cancelAt {
		s.cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.clock != nil {
		s.clock.advance(d)
	}
	return nil
}

// scriptedProvider returns durations in order and fails at failAt (1-based) when set.
type scriptedProvider struct {
	minutes []float64
	failAt  int
	calls   []time.Time
}

var errScripted = errors.New("OVER_QUERY_LIMIT")

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) DurationInTraffic(_ context.Context, _, _ string, departAt time.Time) (float64, error) {
	p.calls = append(p.calls, departAt)
	n := len(p.calls)
	if p.failAt > 0 && n == p.failAt {
		return 0, errScripted
	}
	if len(p.minutes) == 0 {
		return 20, nil
	}
	return p.minutes[(n-1)%len(p.minutes)], nil
}
