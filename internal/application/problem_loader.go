package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

// Problem is a fully compiled decision problem: the validated matrix,
// optional alternative labels, and a pipeline of criterion units ready
// to execute against it.
type Problem struct {
	// Config is the parsed configuration this problem was built from.
	Config ProblemConfig
	// Matrix is the validated, immutable decision matrix.
	Matrix domain.DecisionMatrix
	// Labels names the alternatives, index-aligned with matrix rows.
	// Nil when the configuration supplied no labels.
	Labels []string
	// Pipeline holds the criterion units in configured order.
	Pipeline *Pipeline
}

// Execute runs the problem's criterion pipeline against its matrix and
// returns the final state, which holds the last unit's Decision under
// domain.KeyDecision. Each invocation gets a fresh execution ID.
func (p *Problem) Execute(ctx context.Context) (domain.State, error) {
	state := domain.With(domain.NewState(), domain.KeyMatrix, p.Matrix)
	if p.Labels != nil {
		state = domain.With(state, domain.KeyLabels, p.Labels)
	}
	state = state.WithExecutionContext(domain.ExecutionContext{
		ProblemID:   p.Config.Metadata.Name,
		Criterion:   p.Config.Criteria[len(p.Config.Criteria)-1].Type,
		ExecutionID: fmt.Sprintf("%s-%d", p.Config.Metadata.Name, time.Now().UnixNano()),
	})

	return p.Pipeline.Execute(ctx, state)
}

// ProblemLoader provides YAML configuration parsing, validation, and
// caching for decision problems, transforming declarative YAML
// specifications into executable Problem structures.
// Identical configurations compile once: compiled problems are cached by
// the SHA256 hash of their normalized config, and singleflight collapses
// concurrent loads of the same configuration.
type ProblemLoader struct {
	// validator performs struct field validation for problem
	// configurations and their nested components.
	validator *validator.Validate
	// unitRegistry provides factory methods for creating criterion units
	// based on their type and configuration parameters.
	unitRegistry ports.UnitRegistry
	// cache stores compiled problems indexed by SHA256 hash of the
	// normalized configuration. Cached problems must not be mutated.
	cache map[string]*Problem
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation when multiple goroutines
	// request the same problem simultaneously.
	sf singleflight.Group
}

// NewProblemLoader creates a new problem loader with validation
// capabilities and an empty cache.
func NewProblemLoader(unitRegistry ports.UnitRegistry) *ProblemLoader {
	return &ProblemLoader{
		validator:    validator.New(),
		unitRegistry: unitRegistry,
		cache:        make(map[string]*Problem),
	}
}

// LoadFromFile loads and compiles a decision problem from a YAML file.
// A missing file is reported as a ConfigError wrapping ErrConfigNotFound
// so callers can distinguish absent configuration from a broken one.
// The returned problem is a pointer to a cached instance and must not be
// mutated by callers.
func (pl *ProblemLoader) LoadFromFile(ctx context.Context, path string) (*Problem, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.NewConfigError(cleanPath, ports.ErrConfigNotFound)
		}
		return nil, ports.NewConfigError(cleanPath, err)
	}

	return pl.load(ctx, data)
}

// LoadFromReader loads and compiles a decision problem from an io.Reader.
func (pl *ProblemLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return pl.load(ctx, data)
}

// load is the common implementation for loading problems from byte data,
// using singleflight and SHA256-based caching to avoid recompiling
// identical configurations.
func (pl *ProblemLoader) load(ctx context.Context, data []byte) (*Problem, error) {
	config, err := pl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized config, not the raw bytes, so formatting
	// differences still hit the cache.
	hash, err := pl.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := pl.sf.Do(hash, func() (any, error) {
		if problem, ok := pl.getCachedProblem(hash); ok {
			return problem, nil
		}

		if err := pl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		problem, err := pl.buildProblem(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to build problem: %w", err)
		}

		pl.cacheProblem(hash, problem)

		return problem, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Problem), nil
}

// parseYAML decodes configuration bytes with strict field checking so
// typos in configuration keys fail loudly instead of being ignored.
func (pl *ProblemLoader) parseYAML(data []byte) (*ProblemConfig, error) {
	var config ProblemConfig

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode error: %w", err)
	}

	return &config, nil
}

// validateConfig applies struct-tag validation plus the semantic checks
// struct tags cannot express: label/row alignment, duplicate criterion
// IDs, and per-criterion parameter validation.
func (pl *ProblemLoader) validateConfig(config *ProblemConfig) error {
	if err := pl.validator.Struct(config); err != nil {
		return err
	}

	verr := domain.NewValidationError("problem config")

	if len(config.Labels) > 0 && len(config.Labels) != len(config.Matrix) {
		verr.AddError(fmt.Sprintf("labels count %d does not match matrix rows %d",
			len(config.Labels), len(config.Matrix)))
	}

	seen := make(map[string]struct{}, len(config.Criteria))
	for _, c := range config.Criteria {
		if _, dup := seen[c.ID]; dup {
			verr.AddError(fmt.Sprintf("duplicate criterion ID %q", c.ID))
		}
		seen[c.ID] = struct{}{}

		if err := ValidateCriterionParameters(c.Type, c.Parameters); err != nil {
			verr.AddError(fmt.Sprintf("criterion %q: %v", c.ID, err))
		}
	}

	if verr.HasErrors() {
		return verr
	}

	return nil
}

// buildProblem compiles a validated configuration into an executable
// Problem: matrix construction, unit creation through the registry, and
// pipeline assembly.
func (pl *ProblemLoader) buildProblem(_ context.Context, config *ProblemConfig) (*Problem, error) {
	matrix, err := domain.NewDecisionMatrix(config.Matrix)
	if err != nil {
		return nil, err
	}

	pipeline := NewPipeline(fmt.Sprintf("%s_pipeline", config.Metadata.Name))
	for _, c := range config.Criteria {
		params, err := decodeParameters(c.Parameters)
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", c.ID, err)
		}

		unit, err := pl.unitRegistry.CreateUnit(c.Type, c.ID, params)
		if err != nil {
			return nil, err
		}

		if err := unit.Validate(); err != nil {
			return nil, fmt.Errorf("criterion %q: %w", c.ID, err)
		}

		if err := pipeline.Add(NewUnitAdapter(unit, c.ID)); err != nil {
			return nil, err
		}
	}

	return &Problem{
		Config:   *config,
		Matrix:   matrix,
		Labels:   config.Labels,
		Pipeline: pipeline,
	}, nil
}

// decodeParameters converts a yaml.Node into the map form the unit
// factories consume. A zero node yields an empty map, letting units fall
// back to their defaults.
func decodeParameters(params yaml.Node) (map[string]any, error) {
	if params.IsZero() {
		return map[string]any{}, nil
	}

	var m map[string]any
	if err := params.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// calculateConfigHash computes the SHA256 hash of the normalized
// configuration for cache indexing.
func (pl *ProblemLoader) calculateConfigHash(config *ProblemConfig) (string, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (pl *ProblemLoader) getCachedProblem(hash string) (*Problem, bool) {
	pl.cacheMu.RLock()
	defer pl.cacheMu.RUnlock()

	problem, ok := pl.cache[hash]
	return problem, ok
}

func (pl *ProblemLoader) cacheProblem(hash string, problem *Problem) {
	pl.cacheMu.Lock()
	defer pl.cacheMu.Unlock()

	pl.cache[hash] = problem
}
