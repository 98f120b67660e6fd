package contract

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Stage
	}{
		{"configuration", NewConfigError("interval", "must be positive"), ConfigStage},
		{"external service", &ExternalServiceError{Provider: "google", Tick: 2, Err: errors.New("boom")}, SamplingStage},
		{"io default phase", &IOError{Op: "append", Path: "x.csv", Err: fs.ErrPermission}, PersistenceStage},
		{"io plotting phase", &IOError{Op: "save", Path: "x.png", Phase: PlottingStage, Err: fs.ErrPermission}, PlottingStage},
		{"wrapped", fmt.Errorf("run failed: %w", &ExternalServiceError{Provider: "static"}), SamplingStage},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StageOf(tt.err))
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	ioErr := &IOError{Op: "create", Path: "/ro/traffic_a.csv", Err: fs.ErrPermission}
	wrapped := fmt.Errorf("persist: %w", ioErr)

	assert.ErrorIs(t, wrapped, fs.ErrPermission)
	var target *IOError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "/ro/traffic_a.csv", target.Path)
	assert.Contains(t, ioErr.Error(), "create /ro/traffic_a.csv")

	cause := errors.New("status REQUEST_DENIED")
	svcErr := &ExternalServiceError{Provider: "google", Tick: 3, Err: cause}
	assert.ErrorIs(t, svcErr, cause)
	assert.Equal(t, "google directions query failed at tick 3: status REQUEST_DENIED", svcErr.Error())

	cfgErr := &ConfigurationError{Field: "color", Reason: "bad", Err: cause}
	assert.ErrorIs(t, cfgErr, cause)
	assert.Equal(t, "invalid interval: must be positive", NewConfigError("interval", "must be positive").Error())
}
