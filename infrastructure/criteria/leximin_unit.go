package criteria

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

var (
	_ ports.Unit    = (*LeximinUnit)(nil)
	_ domain.Ranker = (*LeximinUnit)(nil)
)

// CriterionLeximin is the criterion name reported in decisions produced
// by the LeximinUnit.
const CriterionLeximin = "leximin"

// CompareLeximin compares two outcome vectors under the leximin order.
// Both vectors are copied and sorted ascending; the comparison is decided
// at the first position where the sorted vectors differ, scanning from
// the worst outcome toward the best. It returns the ordering of a
// relative to b plus the 0-based depth of the deciding position, or -1
// when the vectors are leximin-equivalent.
//
// Leximin compares multisets of outcomes: two vectors that differ only in
// the order of their entries are equivalent. The inputs are never
// mutated. Vectors of unequal length are compared over their common
// prefix; when that prefix is fully equal the shorter vector orders
// first, matching standard lexicographic convention. Equal lengths are
// guaranteed whenever both vectors come from one DecisionMatrix.
func CompareLeximin(a, b []float64) (domain.Ordering, int) {
	sa := append([]float64(nil), a...)
	sb := append([]float64(nil), b...)
	sort.Float64s(sa)
	sort.Float64s(sb)
	return compareSorted(sa, sb)
}

// compareSorted is CompareLeximin for vectors already sorted ascending.
// It is the hot path of ranking, where each row is sorted exactly once.
func compareSorted(sa, sb []float64) (domain.Ordering, int) {
	n := len(sa)
	if len(sb) < n {
		n = len(sb)
	}
	for k := 0; k < n; k++ {
		if sa[k] != sb[k] {
			if sa[k] > sb[k] {
				return domain.Greater, k
			}
			return domain.Less, k
		}
	}
	switch {
	case len(sa) < len(sb):
		return domain.Less, n
	case len(sa) > len(sb):
		return domain.Greater, n
	default:
		return domain.Equal, -1
	}
}

// LeximinUnit ranks the alternatives of a decision matrix under the
// leximin order: compare worst outcomes first, break ties by
// second-worst, then third-worst, and so on. It refines maximin and
// never contradicts it.
//
// The implementation sorts each row once and orders the sorted vectors
// lexicographically, costing O(n·m·log m + m·n·log n). It never mutates
// the input matrix and keeps no state between calls, so a single unit is
// safe for concurrent use across goroutines.
type LeximinUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config LeximinConfig
}

// LeximinConfig defines the configuration parameters for the LeximinUnit.
// All fields are validated during unit creation and parameter unmarshaling.
type LeximinConfig struct {
	// TieHandling defines how leximin-equivalent alternatives are
	// reported. "classes" groups them into equivalence classes (default);
	// "error" fails so the caller must resolve the ambiguity explicitly.
	// Ties are never broken silently.
	TieHandling TieHandling `yaml:"tie_handling" json:"tie_handling" validate:"required,oneof=classes error"`

	// WithTrace enables the explain trace: for each adjacent pair of
	// equivalence classes the ranking records the comparison depth and
	// the worst-position values that separated them.
	WithTrace bool `yaml:"with_trace" json:"with_trace"`
}

// NewLeximinUnit creates a new LeximinUnit with the specified configuration.
// Returns an error if the name is empty or configuration validation fails.
func NewLeximinUnit(name string, config LeximinConfig) (*LeximinUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &LeximinUnit{
		name:   name,
		config: config,
	}, nil
}

// Name returns the unique identifier for this unit instance.
// The name is used for logging, debugging, and decision ID generation.
func (lu *LeximinUnit) Name() string { return lu.name }

// Execute ranks the decision matrix found in state under the leximin
// order and stores the resulting Decision.
// It reads domain.KeyMatrix, writes domain.KeyDecision, and adds the
// pairwise comparison count to the state's cumulative counter.
// Returns the updated state, or an error if the matrix is missing or
// ranking fails.
func (lu *LeximinUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}

	matrix, ok := domain.Get(state, domain.KeyMatrix)
	if !ok {
		return state, domain.NewStateError("matrix", "Get", ErrMissingMatrix)
	}

	ranking, comparisons, err := lu.rank(matrix)
	if err != nil {
		return state, fmt.Errorf("ranking failed: %w", err)
	}

	decision := &domain.Decision{
		ID:          fmt.Sprintf("%s_decision", lu.name),
		Criterion:   CriterionLeximin,
		Ranking:     ranking,
		Best:        ranking.Best(),
		Comparisons: comparisons,
		Timestamp:   time.Now(),
	}

	state = domain.With(state, domain.KeyDecision, decision)
	return state.AddComparisons(comparisons), nil
}

// Rank implements the domain.Ranker interface, producing a total preorder
// over the matrix's alternatives under the leximin order.
// Leximin-equivalent alternatives are grouped into equivalence classes;
// a matrix whose alternatives are all equivalent yields a single class
// and no error under the default tie policy. The input matrix is never
// mutated.
func (lu *LeximinUnit) Rank(matrix domain.DecisionMatrix) (domain.Ranking, error) {
	ranking, _, err := lu.rank(matrix)
	return ranking, err
}

// rank performs the actual ranking and reports the number of pairwise
// comparisons made, so Execute can feed the state's comparison counter.
func (lu *LeximinUnit) rank(matrix domain.DecisionMatrix) (domain.Ranking, int64, error) {
	if matrix.IsZero() {
		return domain.Ranking{}, 0, fmt.Errorf("%w: zero-value matrix", domain.ErrInvalidMatrix)
	}

	n := matrix.NumAlternatives()

	// Sort each row once, ascending (worst outcome first). Row returns a
	// copy, so the caller's matrix stays untouched.
	sortedRows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := matrix.Row(i)
		sort.Float64s(row)
		sortedRows[i] = row
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var comparisons int64
	// Stable sort keeps equivalent alternatives in ascending index order
	// within their class.
	sort.SliceStable(idx, func(i, j int) bool {
		comparisons++
		ord, _ := compareSorted(sortedRows[idx[i]], sortedRows[idx[j]])
		return ord == domain.Greater
	})

	var classes [][]int
	for _, i := range idx {
		if len(classes) > 0 {
			last := classes[len(classes)-1]
			if ord, _ := compareSorted(sortedRows[last[0]], sortedRows[i]); ord == domain.Equal {
				classes[len(classes)-1] = append(last, i)
				continue
			}
		}
		classes = append(classes, []int{i})
	}

	if lu.config.TieHandling == TieError {
		for _, class := range classes {
			if len(class) > 1 {
				return domain.Ranking{}, comparisons, fmt.Errorf("%w: alternatives %v are leximin-equivalent",
					ErrTie, class)
			}
		}
	}

	ranking := domain.Ranking{Classes: classes}
	if lu.config.WithTrace && len(classes) > 1 {
		ranking.Trace = make([]domain.RankStep, 0, len(classes)-1)
		for k := 0; k < len(classes)-1; k++ {
			better := sortedRows[classes[k][0]]
			worse := sortedRows[classes[k+1][0]]
			_, depth := compareSorted(better, worse)
			ranking.Trace = append(ranking.Trace, domain.RankStep{
				Depth:       depth,
				BetterValue: better[depth],
				WorseValue:  worse[depth],
			})
		}
	}

	return ranking, comparisons, nil
}

// Validate checks if the unit is properly configured and ready for execution.
// Returns nil if validation passes, or an error describing what is invalid.
func (lu *LeximinUnit) Validate() error {
	if err := validate.Struct(lu.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters into the
// unit's configuration struct with strict validation.
// Returns an error if YAML parsing fails or validation rejects the
// decoded configuration.
func (lu *LeximinUnit) UnmarshalParameters(params yaml.Node) error {
	var config LeximinConfig

	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	lu.config = config
	return nil
}

// DefaultLeximinConfig returns a LeximinConfig with sensible defaults:
// ties reported as equivalence classes, no explain trace.
func DefaultLeximinConfig() LeximinConfig {
	return LeximinConfig{
		TieHandling: TieClasses,
		WithTrace:   false,
	}
}

// CreateLeximinUnit is a factory function that creates a LeximinUnit
// from a configuration map, following the UnitFactory pattern.
// This function is used by the UnitRegistry for dynamic unit creation.
func CreateLeximinUnit(id string, config map[string]any) (*LeximinUnit, error) {
	cfg := DefaultLeximinConfig()

	if tieHandling, ok := config["tie_handling"].(string); ok {
		cfg.TieHandling = TieHandling(tieHandling)
	}

	if withTrace, ok := config["with_trace"].(bool); ok {
		cfg.WithTrace = withTrace
	}

	return NewLeximinUnit(id, cfg)
}
