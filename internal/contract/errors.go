package contract

import (
	"errors"
	"fmt"
)

// Stage names the part of a run that failed.
type Stage string

// All stages a run passes through.
const (
	ConfigStage      Stage = "config"
	SamplingStage    Stage = "sampling"
	PersistenceStage Stage = "persistence"
	PlottingStage    Stage = "plotting"
)

// ConfigurationError reports invalid or missing run parameters.
// It is always raised before any sampling starts.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

// NewConfigError builds a ConfigurationError for field.
func NewConfigError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FailedStage implements the stager interface.
func (e *ConfigurationError) FailedStage() Stage { return ConfigStage }

// ExternalServiceError reports a failed or malformed directions query.
type ExternalServiceError struct {
	Provider string
	Tick     int
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s directions query failed at tick %d: %v", e.Provider, e.Tick, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// FailedStage implements the stager interface.
func (e *ExternalServiceError) FailedStage() Stage { return SamplingStage }

// IOError reports a storage or artifact write that did not complete.
type IOError struct {
	Op    string
	Path  string
	Phase Stage
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FailedStage implements the stager interface.
func (e *IOError) FailedStage() Stage {
	if e.Phase == "" {
		return PersistenceStage
	}
	return e.Phase
}

type stager interface {
	FailedStage() Stage
}

// StageOf returns the stage recorded on err, or an empty Stage if none is known.
func StageOf(err error) Stage {
	var s stager
	if errors.As(err, &s) {
		return s.FailedStage()
	}
	return ""
}
