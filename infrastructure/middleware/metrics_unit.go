package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

var _ ports.Unit = (*MetricsUnit)(nil)

// MetricsUnit wraps a criterion unit and reports its execution latency,
// outcome status, comparison counts, and matrix dimensions through a
// MetricsCollector. The wrapped unit's semantics are unchanged; the
// wrapper only observes.
type MetricsUnit struct {
	// unit is the wrapped criterion unit.
	unit ports.Unit
	// metrics receives the observations.
	metrics ports.MetricsCollector
}

// NewMetricsUnit wraps unit so that every Execute call is reported to
// metrics. Both arguments are required.
func NewMetricsUnit(unit ports.Unit, metrics ports.MetricsCollector) (*MetricsUnit, error) {
	if unit == nil {
		return nil, fmt.Errorf("unit cannot be nil")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics collector cannot be nil")
	}

	return &MetricsUnit{
		unit:    unit,
		metrics: metrics,
	}, nil
}

// Name returns the wrapped unit's name.
func (mu *MetricsUnit) Name() string { return mu.unit.Name() }

// Validate delegates to the wrapped unit.
func (mu *MetricsUnit) Validate() error { return mu.unit.Validate() }

// Execute runs the wrapped unit and records latency, operation status,
// the comparison count delta, and the dimensions of the ranked matrix.
func (mu *MetricsUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	labels := map[string]string{"unit": mu.unit.Name()}
	if criterion, ok := domain.Get(state, domain.KeyCriterion); ok {
		labels["criterion"] = criterion
	}

	start := time.Now()
	newState, err := mu.unit.Execute(ctx, state)
	elapsed := time.Since(start)

	mu.metrics.RecordLatency("rank", elapsed, labels)

	status := "success"
	if err != nil {
		status = "error"
	}
	mu.metrics.RecordCounter("rank", 1, map[string]string{
		"unit":   mu.unit.Name(),
		"status": status,
	})

	if err != nil {
		return newState, err
	}

	if decision, ok := domain.Get(newState, domain.KeyDecision); ok {
		if labels["criterion"] == "" {
			labels["criterion"] = decision.Criterion
		}
		mu.metrics.RecordCounter("decision_comparisons_total", float64(decision.Comparisons), labels)
	}

	if matrix, ok := domain.Get(newState, domain.KeyMatrix); ok {
		mu.metrics.RecordGauge("matrix_alternatives", float64(matrix.NumAlternatives()), labels)
		mu.metrics.RecordGauge("matrix_outcomes", float64(matrix.NumOutcomes()), labels)
	}

	return newState, nil
}
