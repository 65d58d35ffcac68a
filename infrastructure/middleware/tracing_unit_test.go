package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ml297/Decision-Science/infrastructure/criteria"
	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

var _ ports.Unit = (*stubUnit)(nil)

// stubUnit is a controllable inner unit for wrapper tests.
type stubUnit struct {
	name        string
	executeErr  error
	validateErr error
	calls       int
}

func (su *stubUnit) Name() string { return su.name }

func (su *stubUnit) Execute(_ context.Context, state domain.State) (domain.State, error) {
	su.calls++
	if su.executeErr != nil {
		return state, su.executeErr
	}
	return state.AddComparisons(1), nil
}

func (su *stubUnit) Validate() error { return su.validateErr }

func TestTracingUnit_Execute(t *testing.T) {
	inner, err := criteria.NewMaximinUnit("mm", criteria.DefaultMaximinConfig())
	require.NoError(t, err)

	unit, err := NewTracingUnit(inner)
	require.NoError(t, err)

	assert.Equal(t, "mm", unit.Name())

	newState, err := unit.Execute(context.Background(), rankedState(t))
	require.NoError(t, err)

	decision, ok := domain.Get(newState, domain.KeyDecision)
	require.True(t, ok)
	assert.Equal(t, criteria.CriterionMaximin, decision.Criterion)
}

// TestTracingUnit_PassesThroughState verifies the wrapper changes
// nothing about the wrapped unit's state transitions.
func TestTracingUnit_PassesThroughState(t *testing.T) {
	stub := &stubUnit{name: "stub"}
	unit, err := NewTracingUnit(stub)
	require.NoError(t, err)

	newState, err := unit.Execute(context.Background(), domain.NewState())
	require.NoError(t, err)
	assert.Equal(t, int64(1), newState.GetComparisons())
	assert.Equal(t, 1, stub.calls)
}

// TestTracingUnit_PassesThroughErrors verifies the wrapped unit's error
// is returned unchanged.
func TestTracingUnit_PassesThroughErrors(t *testing.T) {
	wantErr := errors.New("ranking exploded")
	stub := &stubUnit{name: "stub", executeErr: wantErr}
	unit, err := NewTracingUnit(stub)
	require.NoError(t, err)

	_, err = unit.Execute(context.Background(), domain.NewState())
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, stub.calls)
}

func TestTracingUnit_DelegatesValidate(t *testing.T) {
	wantErr := errors.New("not configured")
	stub := &stubUnit{name: "stub", validateErr: wantErr}
	unit, err := NewTracingUnit(stub)
	require.NoError(t, err)

	assert.ErrorIs(t, unit.Validate(), wantErr)

	ok, err := NewTracingUnit(&stubUnit{name: "ok"})
	require.NoError(t, err)
	assert.NoError(t, ok.Validate())
}

// TestTracingUnit_RecordsExecutionContext runs with full execution
// context and a ranked decision so the span attribute and event paths
// are exercised end to end.
func TestTracingUnit_RecordsExecutionContext(t *testing.T) {
	inner, err := criteria.NewLeximinUnit("lex", criteria.DefaultLeximinConfig())
	require.NoError(t, err)

	unit, err := NewTracingUnit(inner)
	require.NoError(t, err)

	state := rankedState(t).WithExecutionContext(domain.ExecutionContext{
		ProblemID:   "investment",
		Criterion:   "leximin",
		ExecutionID: "investment-1",
	})

	newState, err := unit.Execute(context.Background(), state)
	require.NoError(t, err)

	decision, ok := domain.Get(newState, domain.KeyDecision)
	require.True(t, ok)
	assert.Equal(t, [][]int{{2}, {0}, {1}}, decision.Ranking.Classes)
}

func TestNewTracingUnit_NilUnit(t *testing.T) {
	_, err := NewTracingUnit(nil)
	assert.Error(t, err)
}
