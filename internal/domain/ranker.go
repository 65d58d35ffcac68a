package domain

// Ranker defines the interface for ordering the alternatives of a decision
// matrix under a decision criterion. Implementations provide different
// rules such as leximin, maximin, or the Hurwicz alpha index.
type Ranker interface {
	// Rank produces a total preorder over the matrix's alternatives.
	// The matrix must not be mutated; implementations copy rows before
	// sorting or otherwise transforming them, so concurrent callers may
	// share a single matrix.
	//
	// Ties are reported as equivalence classes in the returned Ranking,
	// never broken silently. A matrix whose alternatives are all
	// equivalent under the criterion yields a single class and no error.
	//
	// Returns an error wrapping ErrInvalidMatrix for a zero-value or
	// otherwise unusable matrix; pure computation has no transient
	// failures, so any error is final.
	Rank(matrix DecisionMatrix) (Ranking, error)
}
