package domain

import (
	"fmt"
	"math"
)

// Alternative identifies one candidate choice in a decision problem.
// Alternatives are addressed by their row index in the decision matrix;
// the label is optional presentation metadata supplied by configuration.
type Alternative struct {
	// Index is the row position of this alternative in the decision matrix.
	Index int `json:"index"`

	// Label is an optional human-readable name for the alternative.
	Label string `json:"label,omitempty"`
}

// DecisionMatrix is an immutable n×m collection of real-valued outcomes.
// Rows are alternatives, columns are outcomes under the possible states of
// the world. The constructor copies and validates its input, so a
// constructed matrix can be shared freely across goroutines: no method
// mutates it and no accessor leaks internal storage.
type DecisionMatrix struct {
	// rows holds the validated outcome values. It is unexported so callers
	// cannot alias or mutate the matrix after construction.
	rows [][]float64
}

// NewDecisionMatrix validates and copies rows into an immutable matrix.
// It fails with an error wrapping ErrInvalidMatrix when the matrix has no
// rows, no columns, ragged rows, or non-finite entries (NaN or ±Inf).
// The input slice is never retained; callers may reuse it afterwards.
func NewDecisionMatrix(rows [][]float64) (DecisionMatrix, error) {
	if len(rows) == 0 {
		return DecisionMatrix{}, fmt.Errorf("%w: matrix has no rows", ErrInvalidMatrix)
	}

	width := len(rows[0])
	if width == 0 {
		return DecisionMatrix{}, fmt.Errorf("%w: matrix has no columns", ErrInvalidMatrix)
	}

	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return DecisionMatrix{}, fmt.Errorf("%w: row %d has %d outcomes, expected %d",
				ErrInvalidMatrix, i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return DecisionMatrix{}, fmt.Errorf("%w: non-finite outcome %f at row %d, column %d",
					ErrInvalidMatrix, v, i, j)
			}
		}
		copied[i] = append([]float64(nil), row...)
	}

	return DecisionMatrix{rows: copied}, nil
}

// NumAlternatives returns n, the number of rows.
func (dm DecisionMatrix) NumAlternatives() int { return len(dm.rows) }

// NumOutcomes returns m, the number of outcome columns.
// It returns 0 for the zero-value matrix.
func (dm DecisionMatrix) NumOutcomes() int {
	if len(dm.rows) == 0 {
		return 0
	}
	return len(dm.rows[0])
}

// IsZero reports whether the matrix is the zero value, i.e. was never
// built through NewDecisionMatrix.
func (dm DecisionMatrix) IsZero() bool { return dm.rows == nil }

// Row returns a copy of alternative i's outcome vector in original column
// order. Mutating the returned slice does not affect the matrix.
func (dm DecisionMatrix) Row(i int) []float64 {
	return append([]float64(nil), dm.rows[i]...)
}

// Outcome returns the single outcome value at row i, column j.
func (dm DecisionMatrix) Outcome(i, j int) float64 { return dm.rows[i][j] }

// String returns a compact representation for debugging and error messages.
func (dm DecisionMatrix) String() string {
	return fmt.Sprintf("DecisionMatrix(%dx%d)", dm.NumAlternatives(), dm.NumOutcomes())
}
