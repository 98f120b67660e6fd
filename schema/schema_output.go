package schema

import "time"

// HistoryRow is a persisted sample enriched for presentation.
type HistoryRow struct {
	Sample
	DelayMinutes float64    `json:"delay_minutes"`
	Label        DelayLabel `json:"label"`
}

// HistorySummary holds aggregate figures over a route's persisted series.
type HistorySummary struct {
	Count       int       `json:"count"`
	MinMinutes  float64   `json:"min_minutes"`
	MaxMinutes  float64   `json:"max_minutes"`
	MeanMinutes float64   `json:"mean_minutes"`
	First       time.Time `json:"first"`
	Last        time.Time `json:"last"`
}

// HistoryResult is the full output of the history command.
type HistoryResult struct {
	RouteKey string         `json:"route_key"`
	Summary  HistorySummary `json:"summary"`
	Rows     []HistoryRow   `json:"rows"`
}
