package criteria

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

var (
	_ ports.Unit    = (*HurwiczUnit)(nil)
	_ domain.Ranker = (*HurwiczUnit)(nil)
)

// CriterionHurwicz is the criterion name reported in decisions produced
// by the HurwiczUnit.
const CriterionHurwicz = "hurwicz"

// HurwiczUnit ranks alternatives by the Hurwicz alpha index, a weighted
// blend of each alternative's best and worst outcomes:
//
//	index = alpha*max(row) + (1-alpha)*min(row)
//
// Alpha expresses the decision maker's optimism: 1 reduces to maximax,
// 0 reduces to maximin. Alternatives with exactly equal indices are tied.
// The unit is stateless and thread-safe for concurrent execution.
type HurwiczUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config HurwiczConfig
}

// HurwiczConfig defines the configuration parameters for the HurwiczUnit.
type HurwiczConfig struct {
	// Alpha is the optimism coefficient weighting the best outcome.
	// Must lie in [0, 1].
	Alpha float64 `yaml:"alpha" json:"alpha" validate:"min=0.0,max=1.0"`

	// TieHandling defines how alternatives with equal indices are
	// reported: "classes" (default) or "error".
	TieHandling TieHandling `yaml:"tie_handling" json:"tie_handling" validate:"required,oneof=classes error"`
}

// NewHurwiczUnit creates a new HurwiczUnit with the specified configuration.
// Returns an error if the name is empty or configuration validation fails.
func NewHurwiczUnit(name string, config HurwiczConfig) (*HurwiczUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &HurwiczUnit{
		name:   name,
		config: config,
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (hu *HurwiczUnit) Name() string { return hu.name }

// Alpha returns the configured optimism coefficient.
func (hu *HurwiczUnit) Alpha() float64 { return hu.config.Alpha }

// Execute ranks the decision matrix found in state by Hurwicz index and
// stores the resulting Decision, including the per-alternative indices
// in Decision.Scores for explainability.
func (hu *HurwiczUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}

	matrix, ok := domain.Get(state, domain.KeyMatrix)
	if !ok {
		return state, domain.NewStateError("matrix", "Get", ErrMissingMatrix)
	}

	ranking, scores, comparisons, err := hu.rank(matrix)
	if err != nil {
		return state, fmt.Errorf("ranking failed: %w", err)
	}

	decision := &domain.Decision{
		ID:          fmt.Sprintf("%s_decision", hu.name),
		Criterion:   CriterionHurwicz,
		Ranking:     ranking,
		Best:        ranking.Best(),
		Scores:      scores,
		Comparisons: comparisons,
		Timestamp:   time.Now(),
	}

	state = domain.With(state, domain.KeyDecision, decision)
	return state.AddComparisons(comparisons), nil
}

// Rank implements the domain.Ranker interface, ordering alternatives by
// descending Hurwicz index. Equal indices form equivalence classes.
func (hu *HurwiczUnit) Rank(matrix domain.DecisionMatrix) (domain.Ranking, error) {
	ranking, _, _, err := hu.rank(matrix)
	return ranking, err
}

func (hu *HurwiczUnit) rank(matrix domain.DecisionMatrix) (domain.Ranking, []float64, int64, error) {
	if matrix.IsZero() {
		return domain.Ranking{}, nil, 0, fmt.Errorf("%w: zero-value matrix", domain.ErrInvalidMatrix)
	}

	alpha := hu.config.Alpha
	n := matrix.NumAlternatives()
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		row := matrix.Row(i)
		scores[i] = alpha*maxOf(row) + (1-alpha)*minOf(row)
	}

	classes, comparisons := classesByScore(scores)

	if hu.config.TieHandling == TieError {
		for _, class := range classes {
			if len(class) > 1 {
				return domain.Ranking{}, nil, comparisons, fmt.Errorf("%w: alternatives %v share index %g",
					ErrTie, class, scores[class[0]])
			}
		}
	}

	return domain.Ranking{Classes: classes}, scores, comparisons, nil
}

// Validate checks if the unit is properly configured and ready for execution.
func (hu *HurwiczUnit) Validate() error {
	if err := validate.Struct(hu.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters into the
// unit's configuration struct with strict validation.
func (hu *HurwiczUnit) UnmarshalParameters(params yaml.Node) error {
	var config HurwiczConfig

	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	hu.config = config
	return nil
}

// DefaultHurwiczConfig returns a HurwiczConfig with sensible defaults:
// an even optimism/pessimism split and ties reported as classes.
func DefaultHurwiczConfig() HurwiczConfig {
	return HurwiczConfig{
		Alpha:       0.5,
		TieHandling: TieClasses,
	}
}

// CreateHurwiczUnit is a factory function that creates a HurwiczUnit
// from a configuration map, following the UnitFactory pattern.
func CreateHurwiczUnit(id string, config map[string]any) (*HurwiczUnit, error) {
	cfg := DefaultHurwiczConfig()

	if alpha, ok := config["alpha"]; ok {
		switch val := alpha.(type) {
		case float64:
			cfg.Alpha = val
		case int:
			cfg.Alpha = float64(val)
		}
	}

	if tieHandling, ok := config["tie_handling"].(string); ok {
		cfg.TieHandling = TieHandling(tieHandling)
	}

	return NewHurwiczUnit(id, cfg)
}
