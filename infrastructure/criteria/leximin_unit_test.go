package criteria

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ml297/Decision-Science/internal/domain"
)

func mustMatrix(t *testing.T, rows [][]float64) domain.DecisionMatrix {
	t.Helper()
	matrix, err := domain.NewDecisionMatrix(rows)
	require.NoError(t, err)
	return matrix
}

// TestCompareLeximin verifies the pairwise comparator: the comparison is
// decided at the first differing position of the sorted vectors, scanning
// from the worst outcome toward the best.
func TestCompareLeximin(t *testing.T) {
	tests := []struct {
		name          string
		a, b          []float64
		expected      domain.Ordering
		expectedDepth int
	}{
		{
			name:          "different minima decide at depth zero",
			a:             []float64{4, 12, 11, 0},
			b:             []float64{6, -4, 66, 143},
			expected:      domain.Greater, // worst 0 beats worst -4
			expectedDepth: 0,
		},
		{
			name:          "equal minima fall through to second-worst",
			a:             []float64{5, 12, 11, 4},
			b:             []float64{4, 6, 39, 143},
			expected:      domain.Less, // both worst 4, second-worst 5 < 6
			expectedDepth: 1,
		},
		{
			name:          "permuted rows are equivalent",
			a:             []float64{2, 9},
			b:             []float64{9, 2},
			expected:      domain.Equal,
			expectedDepth: -1,
		},
		{
			name:          "identical rows are equivalent",
			a:             []float64{1, 1, 1},
			b:             []float64{1, 1, 1},
			expected:      domain.Equal,
			expectedDepth: -1,
		},
		{
			name:          "single outcome degenerates to numeric comparison",
			a:             []float64{3},
			b:             []float64{-7},
			expected:      domain.Greater,
			expectedDepth: 0,
		},
		{
			name:          "later better outcomes cannot outweigh an earlier deficit",
			a:             []float64{0, 1000, 1000},
			b:             []float64{1, 2, 3},
			expected:      domain.Less,
			expectedDepth: 0,
		},
		{
			name:          "negative values use standard ordering",
			a:             []float64{-5, -1},
			b:             []float64{-5, -2},
			expected:      domain.Greater,
			expectedDepth: 1,
		},
		{
			name:          "duplicates within a row need no special case",
			a:             []float64{4, 4, 9},
			b:             []float64{4, 5, 9},
			expected:      domain.Less,
			expectedDepth: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ord, depth := CompareLeximin(tt.a, tt.b)
			assert.Equal(t, tt.expected, ord)
			assert.Equal(t, tt.expectedDepth, depth)

			// Totality: the reversed comparison must mirror exactly.
			reversed, reversedDepth := CompareLeximin(tt.b, tt.a)
			assert.Equal(t, tt.expected.Reverse(), reversed)
			assert.Equal(t, tt.expectedDepth, reversedDepth)
		})
	}
}

// TestCompareLeximin_DoesNotMutateInputs ensures the comparator copies
// before sorting instead of reordering caller-owned slices.
func TestCompareLeximin_DoesNotMutateInputs(t *testing.T) {
	a := []float64{9, 2, 5}
	b := []float64{3, 8, 1}

	_, _ = CompareLeximin(a, b)

	assert.Equal(t, []float64{9, 2, 5}, a)
	assert.Equal(t, []float64{3, 8, 1}, b)
}

// TestLeximinUnit_Rank covers the ranking behavior: ordering, equivalence
// classes, degenerate input, and single-alternative matrices.
func TestLeximinUnit_Rank(t *testing.T) {
	tests := []struct {
		name            string
		rows            [][]float64
		expectedClasses [][]int
	}{
		{
			name:            "ranks by worst value when minima differ",
			rows:            [][]float64{{4, 12, 11, 0}, {6, -4, 66, 143}, {5, 7, 1, 6}},
			expectedClasses: [][]int{{2}, {0}, {1}}, // minima 0, -4, 1
		},
		{
			name:            "breaks maximin ties at the second-worst value",
			rows:            [][]float64{{5, 12, 11, 4}, {4, 6, 39, 143}, {7, 7, 7, 4}},
			expectedClasses: [][]int{{2}, {1}, {0}}, // all minima 4; second-worst 5, 6, 7
		},
		{
			name:            "permuted rows form one equivalence class",
			rows:            [][]float64{{2, 9}, {9, 2}},
			expectedClasses: [][]int{{0, 1}},
		},
		{
			name:            "identical rows form one equivalence class",
			rows:            [][]float64{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}},
			expectedClasses: [][]int{{0, 1, 2}},
		},
		{
			name:            "single alternative is trivially best",
			rows:            [][]float64{{3, 1, 4}},
			expectedClasses: [][]int{{0}},
		},
		{
			name:            "single outcome column degenerates to numeric ranking",
			rows:            [][]float64{{2}, {7}, {-1}},
			expectedClasses: [][]int{{1}, {0}, {2}},
		},
		{
			name:            "mixed ties and strict preferences",
			rows:            [][]float64{{1, 5}, {5, 1}, {2, 4}, {0, 9}},
			expectedClasses: [][]int{{2}, {0, 1}, {3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
			require.NoError(t, err)

			ranking, err := unit.Rank(mustMatrix(t, tt.rows))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedClasses, ranking.Classes)
		})
	}
}

// TestLeximinUnit_Rank_Properties exercises the order-theoretic properties
// the criterion must satisfy regardless of input.
func TestLeximinUnit_Rank_Properties(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	rows := [][]float64{{4, 12, 11, 0}, {6, -4, 66, 143}, {5, 7, 1, 6}}

	t.Run("idempotence", func(t *testing.T) {
		matrix := mustMatrix(t, rows)
		first, err := unit.Rank(matrix)
		require.NoError(t, err)
		second, err := unit.Rank(matrix)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("permutation invariance within a row", func(t *testing.T) {
		base, err := unit.Rank(mustMatrix(t, rows))
		require.NoError(t, err)

		shuffled := [][]float64{{0, 11, 12, 4}, {143, 66, -4, 6}, {6, 1, 7, 5}}
		permuted, err := unit.Rank(mustMatrix(t, shuffled))
		require.NoError(t, err)

		assert.Equal(t, base.Classes, permuted.Classes)
	})

	t.Run("row permutation equivariance", func(t *testing.T) {
		// Swap rows 0 and 2; the ranking must track identity, not position.
		swapped := [][]float64{{5, 7, 1, 6}, {6, -4, 66, 143}, {4, 12, 11, 0}}
		ranking, err := unit.Rank(mustMatrix(t, swapped))
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {2}, {1}}, ranking.Classes)
	})

	t.Run("maximin consistency", func(t *testing.T) {
		maximin, err := NewMaximinUnit("mm", DefaultMaximinConfig())
		require.NoError(t, err)

		matrix := mustMatrix(t, rows)
		lexRanking, err := unit.Rank(matrix)
		require.NoError(t, err)
		mmRanking, err := maximin.Rank(matrix)
		require.NoError(t, err)

		// All minima differ here, so the two criteria must agree exactly.
		assert.Equal(t, mmRanking.Classes, lexRanking.Classes)
	})

	t.Run("input matrix is not mutated", func(t *testing.T) {
		matrix := mustMatrix(t, rows)
		_, err := unit.Rank(matrix)
		require.NoError(t, err)
		for i, row := range rows {
			assert.Equal(t, row, matrix.Row(i))
		}
	})
}

// TestLeximinUnit_Rank_Trace verifies the explain trace records the depth
// and worst-position values that separated adjacent classes.
func TestLeximinUnit_Rank_Trace(t *testing.T) {
	unit, err := NewLeximinUnit("lex", LeximinConfig{TieHandling: TieClasses, WithTrace: true})
	require.NoError(t, err)

	// All minima tie at 4; second-worst values 5, 6, 7 decide.
	ranking, err := unit.Rank(mustMatrix(t, [][]float64{{5, 12, 11, 4}, {4, 6, 39, 143}, {7, 7, 7, 4}}))
	require.NoError(t, err)

	require.Equal(t, [][]int{{2}, {1}, {0}}, ranking.Classes)
	require.Len(t, ranking.Trace, 2)

	assert.Equal(t, domain.RankStep{Depth: 1, BetterValue: 7, WorseValue: 6}, ranking.Trace[0])
	assert.Equal(t, domain.RankStep{Depth: 1, BetterValue: 6, WorseValue: 5}, ranking.Trace[1])
}

// TestLeximinUnit_TieError verifies the explicit tie policy fails instead
// of silently picking an order.
func TestLeximinUnit_TieError(t *testing.T) {
	unit, err := NewLeximinUnit("lex", LeximinConfig{TieHandling: TieError})
	require.NoError(t, err)

	_, err = unit.Rank(mustMatrix(t, [][]float64{{2, 9}, {9, 2}}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTie)
}

func TestLeximinUnit_Rank_ZeroMatrix(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	_, err = unit.Rank(domain.DecisionMatrix{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMatrix)
}

// TestLeximinUnit_Execute verifies the state contract: read KeyMatrix,
// write KeyDecision, accumulate the comparison counter.
func TestLeximinUnit_Execute(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	matrix := mustMatrix(t, [][]float64{{4, 12, 11, 0}, {6, -4, 66, 143}, {5, 7, 1, 6}})
	state := domain.With(domain.NewState(), domain.KeyMatrix, matrix)

	newState, err := unit.Execute(context.Background(), state)
	require.NoError(t, err)

	decision, ok := domain.Get(newState, domain.KeyDecision)
	require.True(t, ok)
	assert.Equal(t, "lex_decision", decision.ID)
	assert.Equal(t, CriterionLeximin, decision.Criterion)
	assert.Equal(t, []int{2}, decision.Best)
	assert.Equal(t, [][]int{{2}, {0}, {1}}, decision.Ranking.Classes)
	assert.Positive(t, decision.Comparisons)
	assert.Equal(t, decision.Comparisons, newState.GetComparisons())

	// Original state is untouched.
	_, ok = domain.Get(state, domain.KeyDecision)
	assert.False(t, ok)
}

func TestLeximinUnit_Execute_MissingMatrix(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	_, err = unit.Execute(context.Background(), domain.NewState())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMatrix)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "matrix", stateErr.Key)
	assert.Equal(t, "Get", stateErr.Operation)
}

func TestLeximinUnit_Execute_CancelledContext(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := domain.With(domain.NewState(), domain.KeyMatrix, mustMatrix(t, [][]float64{{1}}))
	_, err = unit.Execute(ctx, state)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLeximinUnit_Validation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := NewLeximinUnit("", DefaultLeximinConfig())
		assert.ErrorIs(t, err, ErrEmptyUnitName)
		assert.ErrorIs(t, err, domain.ErrEmptyValue)
	})

	t.Run("invalid tie handling", func(t *testing.T) {
		_, err := NewLeximinUnit("lex", LeximinConfig{TieHandling: "shuffle"})
		assert.Error(t, err)
	})
}

func TestLeximinUnit_UnmarshalParameters(t *testing.T) {
	unit, err := NewLeximinUnit("lex", DefaultLeximinConfig())
	require.NoError(t, err)

	t.Run("valid parameters", func(t *testing.T) {
		var node yaml.Node
		require.NoError(t, yaml.Unmarshal([]byte("tie_handling: error\nwith_trace: true\n"), &node))
		require.NoError(t, unit.UnmarshalParameters(*node.Content[0]))
		assert.Equal(t, TieError, unit.config.TieHandling)
		assert.True(t, unit.config.WithTrace)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		var node yaml.Node
		require.NoError(t, yaml.Unmarshal([]byte("tie_handling: sometimes\n"), &node))
		assert.Error(t, unit.UnmarshalParameters(*node.Content[0]))
	})
}
