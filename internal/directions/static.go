package directions

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
)

// Pair is a fixed duration for one origin/destination pair.
type Pair struct {
	From, To string
	Minutes  float64
}

// StaticProvider answers from a fixed table, falling back to a default duration.
// It backs offline runs and tests.
type StaticProvider struct {
	pairs    map[string]float64
	fallback float64
}

// NewStaticProvider builds a provider that returns fallback for unknown pairs.
// A fallback of zero makes unknown pairs an error.
func NewStaticProvider(fallback float64, pairs ...Pair) *StaticProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Minutes
	}
	return &StaticProvider{pairs: m, fallback: fallback}
}

// Name implements contract.DirectionsProvider.
func (p *StaticProvider) Name() string { return "static" }

// DurationInTraffic implements contract.DirectionsProvider.
func (p *StaticProvider) DurationInTraffic(ctx context.Context, origin, destination string, _ time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m, ok := p.pairs[origin+"|"+destination]; ok {
		return m, nil
	}
	if p.fallback > 0 {
		return p.fallback, nil
	}
	return 0, fmt.Errorf("missing pair %q -> %q", origin, destination)
}

var _ contract.DirectionsProvider = &StaticProvider{}
