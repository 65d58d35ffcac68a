package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ml297/Decision-Science/internal/domain"
)

func TestPipeline_Add(t *testing.T) {
	pipeline := NewPipeline("p")

	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "a"}, "a")))
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "b"}, "b")))

	assert.Error(t, pipeline.Add(nil))
	assert.Error(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "a"}, "a")), "duplicate ID must be rejected")

	assert.Len(t, pipeline.Executables(), 2)
	assert.Equal(t, "p", pipeline.ID())
}

func TestPipeline_Execute_Sequential(t *testing.T) {
	pipeline := NewPipeline("p")
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "a"}, "a")))
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "b"}, "b")))
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "c"}, "c")))

	state, err := pipeline.Execute(context.Background(), domain.NewState())
	require.NoError(t, err)

	// Each stub unit adds one comparison; sequential execution threads
	// the state through all of them.
	assert.Equal(t, int64(3), state.GetComparisons())
}

func TestPipeline_Execute_FailureIdentifiesUnit(t *testing.T) {
	boom := errors.New("boom")

	pipeline := NewPipeline("p")
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "ok"}, "ok")))
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "bad", fail: boom}, "bad")))

	_, err := pipeline.Execute(context.Background(), domain.NewState())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "executable bad failed")
}

func TestPipeline_Execute_CancelledContext(t *testing.T) {
	pipeline := NewPipeline("p")
	require.NoError(t, pipeline.Add(NewUnitAdapter(stubUnit{name: "a"}, "a")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Execute(ctx, domain.NewState())
	assert.ErrorIs(t, err, context.Canceled)
}
