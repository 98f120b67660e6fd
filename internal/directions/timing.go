package directions

import (
	"context"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/sirupsen/logrus"
)

// Time starts a timer for op and returns a func that logs its duration and error.
//
//	defer directions.Time("directions")(&err)
func Time(op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := logrus.WithFields(logrus.Fields{
			"op":  op,
			"dur": time.Since(start).Milliseconds(),
		})
		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("call failed")
			return
		}
		entry.Debug("call finished")
	}
}

// Timed wraps a provider so every query is timed and logged.
type Timed struct {
	contract.DirectionsProvider
}

// DurationInTraffic implements contract.DirectionsProvider.
func (t Timed) DurationInTraffic(ctx context.Context, origin, destination string, departAt time.Time) (minutes float64, err error) {
	defer Time(t.Name() + ".directions")(&err)
	return t.DirectionsProvider.DurationInTraffic(ctx, origin, destination, departAt)
}
