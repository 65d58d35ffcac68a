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
	_ ports.Unit    = (*MaximinUnit)(nil)
	_ domain.Ranker = (*MaximinUnit)(nil)
)

// CriterionMaximin is the criterion name reported in decisions produced
// by the MaximinUnit.
const CriterionMaximin = "maximin"

// MaximinUnit ranks alternatives by their worst outcome: the alternative
// whose row minimum is largest is preferred. Alternatives with exactly
// equal minima are tied; leximin refines this criterion when a finer
// order is needed.
// The unit is stateless and thread-safe for concurrent execution.
type MaximinUnit struct {
	// name is the unique identifier for this unit instance.
	name string
	// config contains the validated configuration parameters.
	config MaximinConfig
}

// MaximinConfig defines the configuration parameters for the MaximinUnit.
type MaximinConfig struct {
	// TieHandling defines how alternatives with equal row minima are
	// reported: "classes" (default) or "error".
	TieHandling TieHandling `yaml:"tie_handling" json:"tie_handling" validate:"required,oneof=classes error"`
}

// NewMaximinUnit creates a new MaximinUnit with the specified configuration.
// Returns an error if the name is empty or configuration validation fails.
func NewMaximinUnit(name string, config MaximinConfig) (*MaximinUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &MaximinUnit{
		name:   name,
		config: config,
	}, nil
}

// Name returns the unique identifier for this unit instance.
func (mu *MaximinUnit) Name() string { return mu.name }

// Execute ranks the decision matrix found in state by row minima and
// stores the resulting Decision, including the per-alternative minimum
// values in Decision.Scores for explainability.
func (mu *MaximinUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}

	matrix, ok := domain.Get(state, domain.KeyMatrix)
	if !ok {
		return state, domain.NewStateError("matrix", "Get", ErrMissingMatrix)
	}

	ranking, scores, comparisons, err := mu.rank(matrix)
	if err != nil {
		return state, fmt.Errorf("ranking failed: %w", err)
	}

	decision := &domain.Decision{
		ID:          fmt.Sprintf("%s_decision", mu.name),
		Criterion:   CriterionMaximin,
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
// descending row minimum. Equal minima form equivalence classes.
func (mu *MaximinUnit) Rank(matrix domain.DecisionMatrix) (domain.Ranking, error) {
	ranking, _, _, err := mu.rank(matrix)
	return ranking, err
}

func (mu *MaximinUnit) rank(matrix domain.DecisionMatrix) (domain.Ranking, []float64, int64, error) {
	if matrix.IsZero() {
		return domain.Ranking{}, nil, 0, fmt.Errorf("%w: zero-value matrix", domain.ErrInvalidMatrix)
	}

	n := matrix.NumAlternatives()
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = minOf(matrix.Row(i))
	}

	classes, comparisons := classesByScore(scores)

	if mu.config.TieHandling == TieError {
		for _, class := range classes {
			if len(class) > 1 {
				return domain.Ranking{}, nil, comparisons, fmt.Errorf("%w: alternatives %v share minimum %g",
					ErrTie, class, scores[class[0]])
			}
		}
	}

	return domain.Ranking{Classes: classes}, scores, comparisons, nil
}

// Validate checks if the unit is properly configured and ready for execution.
func (mu *MaximinUnit) Validate() error {
	if err := validate.Struct(mu.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters into the
// unit's configuration struct with strict validation.
func (mu *MaximinUnit) UnmarshalParameters(params yaml.Node) error {
	var config MaximinConfig

	if err := params.Decode(&config); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}

	mu.config = config
	return nil
}

// DefaultMaximinConfig returns a MaximinConfig with sensible defaults.
func DefaultMaximinConfig() MaximinConfig {
	return MaximinConfig{
		TieHandling: TieClasses,
	}
}

// CreateMaximinUnit is a factory function that creates a MaximinUnit
// from a configuration map, following the UnitFactory pattern.
func CreateMaximinUnit(id string, config map[string]any) (*MaximinUnit, error) {
	cfg := DefaultMaximinConfig()

	if tieHandling, ok := config["tie_handling"].(string); ok {
		cfg.TieHandling = TieHandling(tieHandling)
	}

	return NewMaximinUnit(id, cfg)
}
