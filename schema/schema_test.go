package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunParametersInterval(t *testing.T) {
	p := RunParameters{TotalMinutes: 180, IntervalMinutes: 2}
	assert.Equal(t, 2*time.Minute, p.Interval())
}

func TestSeriesHeaderOrder(t *testing.T) {
	assert.Equal(t, []string{"day_of_week", "datetime", "duration_minutes"}, SeriesHeader)
}

func TestSeriesTimeLayoutKeepsMicroseconds(t *testing.T) {
	ts := time.Date(2024, 1, 1, 8, 0, 0, 123456000, time.UTC)
	formatted := ts.Format(SeriesTimeLayout)
	assert.Equal(t, "2024-01-01 08:00:00.123456", formatted)

	parsed, err := time.Parse(SeriesTimeLayout, formatted)
	assert.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}
