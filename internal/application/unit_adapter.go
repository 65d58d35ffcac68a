package application

import (
	"context"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

// UnitAdapter wraps a ports.Unit to implement the ports.Executable
// interface, enabling criterion units to participate in pipeline
// execution.
type UnitAdapter struct {
	// unit is the underlying criterion unit that performs the actual
	// work when Execute is called.
	unit ports.Unit
	// id is the unique identifier for this adapter within the pipeline
	// scope, used for referencing and error reporting.
	id string
}

// NewUnitAdapter creates a new adapter that wraps a ports.Unit to
// implement the ports.Executable interface.
func NewUnitAdapter(unit ports.Unit, id string) *UnitAdapter {
	return &UnitAdapter{
		unit: unit,
		id:   id,
	}
}

// Execute delegates to the underlying unit's Execute method,
// providing transparent pass-through of context, state, and results.
func (ua *UnitAdapter) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	return ua.unit.Execute(ctx, state)
}

// ID returns the unique string identifier for this adapter.
func (ua *UnitAdapter) ID() string { return ua.id }

// Unit returns the wrapped criterion unit.
func (ua *UnitAdapter) Unit() ports.Unit { return ua.unit }
