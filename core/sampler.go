package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/sirupsen/logrus"
)

// TickFunc observes each sample right after it is appended.
type TickFunc func(tick, total int, s schema.Sample)

// Sampler queries a provider once per tick and buffers the answers.
type Sampler struct {
	provider contract.DirectionsProvider
	clock    *SampleClock
	now      contract.Clock
	onTick   TickFunc
}

// NewSampler wires a sampler. A nil now uses the system clock.
func NewSampler(provider contract.DirectionsProvider, clock *SampleClock, now contract.Clock) *Sampler {
	if now == nil {
		now = SystemClock{}
	}
	return &Sampler{provider: provider, clock: clock, now: now}
}

// OnTick registers a progress callback.
func (s *Sampler) OnTick(fn TickFunc) *Sampler {
	s.onTick = fn
	return s
}

// Collect runs every tick for route and returns the closed buffer.
// Waits happen only between ticks, so a run of n ticks waits n-1 times.
// Any provider failure or cancellation aborts the run; the partial buffer is returned with the error.
func (s *Sampler) Collect(ctx context.Context, route schema.RouteConfig) (*TimeSeriesBuffer, error) {
	total := s.clock.TickCount()
	buf := NewTimeSeriesBuffer(total)

	for tick := 1; tick <= total; tick++ {
		if tick > 1 {
			if err := s.clock.Wait(ctx); err != nil {
				return buf, err
			}
		}

		departAt := s.now.Now()
		minutes, err := s.provider.DurationInTraffic(ctx, route.Origin, route.Destination, departAt)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return buf, ctxErr
				}
			}
			return buf, &contract.ExternalServiceError{Provider: s.provider.Name(), Tick: tick, Err: err}
		}
		if minutes <= 0 {
			return buf, &contract.ExternalServiceError{Provider: s.provider.Name(), Tick: tick, Err: fmt.Errorf("non-positive duration %v", minutes)}
		}

		sample := schema.NewSample(departAt, minutes)
		buf.Append(sample)

		logrus.WithFields(logrus.Fields{
			"tick":    tick,
			"total":   total,
			"minutes": minutes,
		}).Debug("sample collected")

		if s.onTick != nil {
			s.onTick(tick, total, sample)
		}
	}
	return buf, nil
}
