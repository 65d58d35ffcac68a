package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetricsError tests the functionality of the MetricsError error type.
// It ensures that the error message is formatted correctly and includes the necessary context.
func TestMetricsError(t *testing.T) {
	err := NewMetricsError("decision_rank_duration_seconds", "Register", errors.New("duplicate metrics collector registration attempted"))

	assert.Equal(t,
		"metrics error: operation=Register, metric=decision_rank_duration_seconds, err=duplicate metrics collector registration attempted",
		err.Error())
	assert.Equal(t, "decision_rank_duration_seconds", err.Metric)
	assert.Equal(t, "Register", err.Operation)
}

// TestConfigError tests the functionality of the ConfigError error type.
// It verifies that the error message is formatted correctly and contains the relevant configuration key.
func TestConfigError(t *testing.T) {
	err := NewConfigError("problems/investment.yaml", ErrConfigNotFound)

	assert.Equal(t, "config error: key=problems/investment.yaml, err=configuration not found", err.Error())
	assert.Equal(t, "problems/investment.yaml", err.ConfigKey)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

// TestCommonInfrastructureErrors tests that the common infrastructure errors are defined.
// It checks that each error has the expected error message.
func TestCommonInfrastructureErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrConfigNotFound, "configuration not found"},
		{ErrUnsupportedUnitType, "unsupported unit type"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

// TestErrorUnwrapping tests that all custom error types in the package support unwrapping.
// It ensures that the underlying error can be extracted correctly using errors.Is and Unwrap.
func TestErrorUnwrapping(t *testing.T) {
	baseErr := errors.New("underlying error")

	errorList := []interface {
		error
		Unwrap() error
	}{
		NewMetricsError("metric", "op", baseErr),
		NewConfigError("key", baseErr),
	}

	for _, err := range errorList {
		unwrapped := err.Unwrap()
		assert.Equal(t, baseErr, unwrapped, "%T should unwrap to base error", err)
		assert.True(t, errors.Is(err, baseErr), "%T should match base error with Is", err)
	}
}
