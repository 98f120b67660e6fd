package schema

import (
	"time"
)

// DayOfWeek returns the weekday of t with Monday as 0 and Sunday as 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NewSample builds a Sample for a duration estimate requested at t.
func NewSample(t time.Time, minutes float64) Sample {
	return Sample{
		DayOfWeek:       DayOfWeek(t),
		Timestamp:       t,
		DurationMinutes: minutes,
	}
}

// SeriesFileName returns the series file name for a route key, e.g. traffic_home_work.csv.
func SeriesFileName(routeKey string) string {
	return SeriesFilePrefix + routeKey + SeriesFileExt
}

// ChartFileName returns the chart file name for a route key and the run's first timestamp.
func ChartFileName(routeKey string, start time.Time) string {
	return ChartFilePrefix + routeKey + "_" + start.Format(ChartStampLayout) + ChartFileExt
}

// GetDelayLabel classifies a duration against the best duration seen for the route.
// The ratio thresholds are relative: 10% over is still free flowing, 50% over is severe.
func GetDelayLabel(minutes, best float64) DelayLabel {
	if best <= 0 {
		return FreeDelay
	}
	ratio := minutes / best
	switch {
	case ratio >= 1.5:
		return SevereDelay
	case ratio >= 1.25:
		return HeavyDelay
	case ratio >= 1.1:
		return ModerateDelay
	default:
		return FreeDelay
	}
}

// Summarize computes aggregate figures over samples in their given order.
func Summarize(samples []Sample) HistorySummary {
	var s HistorySummary
	if len(samples) == 0 {
		return s
	}
	s.Count = len(samples)
	s.MinMinutes = samples[0].DurationMinutes
	s.MaxMinutes = samples[0].DurationMinutes
	s.First = samples[0].Timestamp
	s.Last = samples[0].Timestamp
	total := 0.0
	for _, sm := range samples {
		total += sm.DurationMinutes
		s.MinMinutes = min(s.MinMinutes, sm.DurationMinutes)
		s.MaxMinutes = max(s.MaxMinutes, sm.DurationMinutes)
		if sm.Timestamp.Before(s.First) {
			s.First = sm.Timestamp
		}
		if sm.Timestamp.After(s.Last) {
			s.Last = sm.Timestamp
		}
	}
	s.MeanMinutes = total / float64(len(samples))
	return s
}

// EnrichHistory labels each sample by its delay over the route minimum.
func EnrichHistory(routeKey string, samples []Sample) HistoryResult {
	summary := Summarize(samples)
	rows := make([]HistoryRow, len(samples))
	for i, sm := range samples {
		rows[i] = HistoryRow{
			Sample:       sm,
			DelayMinutes: sm.DurationMinutes - summary.MinMinutes,
			Label:        GetDelayLabel(sm.DurationMinutes, summary.MinMinutes),
		}
	}
	return HistoryResult{
		RouteKey: routeKey,
		Summary:  summary,
		Rows:     rows,
	}
}
