// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ml297/Decision-Science/internal/domain"
)

// Unit represents the fundamental building block of a decision pipeline.
// Each Unit performs a specific transformation on the decision State,
// typically reading a matrix and writing a Decision.
// Units should be stateless and thread-safe for concurrent execution.
type Unit interface {
	// Name returns a unique identifier for this unit.
	// The name is used for logging, debugging, and configuration.
	Name() string

	// Execute performs the unit's transformation on the provided State.
	// It returns a new State containing the results of the transformation.
	// The original State should not be modified (immutability principle).
	// Any errors during execution should be returned rather than panicking.
	//
	// The context parameter allows for cancellation and deadline propagation.
	// Units should respect context cancellation and return promptly.
	//
	// Example:
	//
	//	newState, err := unit.Execute(ctx, state)
	//	if err != nil {
	//	    return nil, fmt.Errorf("unit %s failed: %w", unit.Name(), err)
	//	}
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// Validate checks if the unit is properly configured and ready for
	// execution. It is typically called during pipeline construction or
	// before execution. Return nil if validation passes, or an error
	// describing what is invalid.
	Validate() error
}

// Executable defines the contract for components that can participate in
// pipeline execution: individual units and containers of units alike.
type Executable interface {
	// Execute processes the given state through this component and
	// returns the updated state along with any execution errors.
	// The input state is immutable and must not be modified; use
	// state.With() to create a new state with changes.
	Execute(ctx context.Context, state domain.State) (domain.State, error)

	// ID returns the unique string identifier for this component.
	// The ID must remain constant throughout the component's lifetime.
	ID() string
}
