package core

import (
	"iter"
	"slices"

	"github.com/huangsam/trafficprofile/schema"
)

// TimeSeriesBuffer holds one run's samples in collection order.
// It is owned by a single sampling goroutine and is not safe for concurrent use.
type TimeSeriesBuffer struct {
	samples []schema.Sample
}

// NewTimeSeriesBuffer returns a buffer sized for capacity samples.
func NewTimeSeriesBuffer(capacity int) *TimeSeriesBuffer {
	return &TimeSeriesBuffer{samples: make([]schema.Sample, 0, max(capacity, 0))}
}

// Append adds a sample at the end.
func (b *TimeSeriesBuffer) Append(s schema.Sample) {
	b.samples = append(b.samples, s)
}

// Len returns the number of samples collected so far.
func (b *TimeSeriesBuffer) Len() int {
	return len(b.samples)
}

// Rows yields samples in insertion order. Each call starts from the first sample.
func (b *TimeSeriesBuffer) Rows() iter.Seq[schema.Sample] {
	return func(yield func(schema.Sample) bool) {
		for _, s := range b.samples {
			if !yield(s) {
				return
			}
		}
	}
}

// Samples returns a copy of the collected samples.
func (b *TimeSeriesBuffer) Samples() []schema.Sample {
	return slices.Collect(b.Rows())
}
