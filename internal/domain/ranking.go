package domain

import (
	"fmt"
	"time"
)

// Ordering is the three-valued result of comparing two alternatives under
// a decision criterion.
type Ordering int

// Comparison outcomes. Less means the first argument is strictly
// dispreferred, Greater that it is strictly preferred.
const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// String returns a human-readable name for the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Reverse returns the ordering with its arguments swapped.
func (o Ordering) Reverse() Ordering { return -o }

// RankStep records why two adjacent equivalence classes were separated:
// the comparison depth at which they first differ (0 = worst outcome) and
// the values observed at that depth. It exists purely for explainability
// of a Ranking; correctness never depends on it.
type RankStep struct {
	// Depth is the 0-based position in the sorted outcome vectors at which
	// the better class first beats the worse class.
	Depth int `json:"depth"`

	// BetterValue is the value at Depth for the preferred class.
	BetterValue float64 `json:"better_value"`

	// WorseValue is the value at Depth for the dispreferred class.
	WorseValue float64 `json:"worse_value"`
}

// Ranking is a total preorder over the alternatives of a decision matrix.
// Classes lists equivalence classes of alternative indices from best to
// worst; alternatives in the same class are exactly tied under the
// criterion that produced the ranking. Ties are always reported as
// classes, never broken silently.
type Ranking struct {
	// Classes holds equivalence classes of alternative indices, best
	// first. Indices within a class are in ascending order.
	Classes [][]int `json:"classes"`

	// Trace optionally justifies each adjacent-class separation.
	// Trace[k] explains why Classes[k] precedes Classes[k+1], so
	// len(Trace) == len(Classes)-1 when present. Nil when the producing
	// unit was not configured to emit a trace.
	Trace []RankStep `json:"trace,omitempty"`
}

// NumAlternatives returns the total number of alternatives covered by the
// ranking across all equivalence classes.
func (r Ranking) NumAlternatives() int {
	n := 0
	for _, class := range r.Classes {
		n += len(class)
	}
	return n
}

// Best returns a copy of the top equivalence class.
func (r Ranking) Best() []int {
	if len(r.Classes) == 0 {
		return nil
	}
	return append([]int(nil), r.Classes[0]...)
}

// Degenerate reports whether every alternative fell into a single
// equivalence class, i.e. the criterion could not discriminate at all.
// This is informational, not an error; the caller decides how to proceed.
func (r Ranking) Degenerate() bool {
	return len(r.Classes) == 1 && len(r.Classes[0]) > 1
}

// Order flattens the ranking into a best-to-worst sequence of alternative
// indices. Within an equivalence class the tie is broken by ascending
// original index; this break is presentational only and the class
// structure in Classes remains the authoritative result.
func (r Ranking) Order() []int {
	out := make([]int, 0, r.NumAlternatives())
	for _, class := range r.Classes {
		out = append(out, class...)
	}
	return out
}

// PositionOf returns the 0-based class position of alternative idx
// (0 = best), or -1 when the ranking does not cover it.
func (r Ranking) PositionOf(idx int) int {
	for pos, class := range r.Classes {
		for _, i := range class {
			if i == idx {
				return pos
			}
		}
	}
	return -1
}

// Decision is the final outcome of applying one decision criterion to a
// matrix. It carries the full ranking plus convenience fields for the
// common "which alternative do I pick" question.
type Decision struct {
	// ID uniquely identifies this decision (typically "<unit>_decision").
	ID string `json:"id"`

	// Criterion names the decision rule that produced the ranking,
	// e.g. "leximin", "maximin", "hurwicz".
	Criterion string `json:"criterion"`

	// Ranking is the full total preorder over alternative indices.
	Ranking Ranking `json:"ranking"`

	// Best lists the indices of the top equivalence class.
	Best []int `json:"best"`

	// Scores holds a per-alternative scalar where the criterion defines
	// one (the row minimum for maximin, the alpha index for Hurwicz).
	// Nil for purely ordinal criteria such as leximin.
	Scores []float64 `json:"scores,omitempty"`

	// Comparisons counts the pairwise criterion comparisons performed,
	// for observability.
	Comparisons int64 `json:"comparisons,omitempty"`

	// Timestamp records when this decision was produced.
	Timestamp time.Time `json:"timestamp"`
}

// String summarizes the decision for logs and debugging.
func (d Decision) String() string {
	return fmt.Sprintf("Decision(%s: best=%v, classes=%d)", d.Criterion, d.Best, len(d.Ranking.Classes))
}
