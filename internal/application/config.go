// Package application wires decision problems together: it loads YAML
// problem definitions, instantiates criterion units through a registry,
// and executes them as sequential pipelines or concurrent batches.
package application

import (
	"gopkg.in/yaml.v3"
)

// ProblemConfig defines the complete specification for a decision problem
// and serves as the primary configuration entry point for the system.
// It pairs a payoff matrix with the criteria to apply to it.
type ProblemConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across system updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the decision
	// problem for organization and discovery.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Matrix holds the payoff values: one row per alternative, one
	// column per state of the world. Structural validation (rectangular,
	// finite entries) happens in domain.NewDecisionMatrix.
	Matrix [][]float64 `yaml:"matrix" validate:"required,min=1"`
	// Labels optionally names the alternatives. When present its length
	// must equal the number of matrix rows; the loader enforces this.
	Labels []string `yaml:"labels" validate:"omitempty,dive,min=1,max=100"`
	// Criteria lists the decision rules to apply, in execution order.
	Criteria []CriterionConfig `yaml:"criteria" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about a decision problem
// to support organization, discovery, and operational management.
type Metadata struct {
	// Name is the human-readable identifier for this decision problem.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description provides a detailed explanation of the problem's
	// context for documentation and discovery.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels that enable filtering and grouping
	// of problems by domain or operational characteristics.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
}

// CriterionConfig defines the specification for a single criterion unit
// within a decision problem.
type CriterionConfig struct {
	// ID is the unique identifier for this criterion within the problem
	// and must be alphanumeric for safe referencing.
	ID string `yaml:"id" validate:"required,alphanum,min=1,max=100"`
	// Type specifies the criterion implementation to instantiate.
	Type string `yaml:"type" validate:"required,oneof=leximin maximin hurwicz"`
	// Parameters contains type-specific configuration as flexible YAML
	// that will be validated according to the criterion type.
	Parameters yaml.Node `yaml:"parameters"`
}
