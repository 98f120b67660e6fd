// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteHistory prints a route's persisted series using the configured output format.
func (ow *OutWriter) WriteHistory(result schema.HistoryResult, cfg *contract.Config) error {
	return PrintHistoryResults(result, cfg)
}

// WriteRuns prints recorded sample runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRunRecords(runs, cfg)
}

// WriteRunResult prints the closing summary of a sample run.
func (ow *OutWriter) WriteRunResult(result schema.RunResult, cfg *contract.Config) error {
	return PrintRunResult(result, cfg)
}

// WriteStatus prints the run store status.
func (ow *OutWriter) WriteStatus(status schema.RunStoreStatus, cfg *contract.Config) error {
	return PrintRunStoreStatus(status, cfg)
}
