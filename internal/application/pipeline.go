package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.Executable = (*Pipeline)(nil)

// Pipeline is a sequential execution container that processes executables
// in strict order, where each executable's output state becomes the input
// for the next executable in the sequence. A decision problem typically
// runs its criterion units through one pipeline so later units can see
// earlier results in state.
type Pipeline struct {
	// id is the unique identifier for this pipeline.
	id string
	// executables contains the ordered list of components that will
	// execute sequentially, with state flowing from one to the next.
	executables []ports.Executable
	// idSet tracks executable IDs for O(1) duplicate detection.
	idSet map[string]struct{}
	// mu provides thread-safe access to the executables slice during
	// concurrent read and write operations.
	mu sync.RWMutex
}

// NewPipeline creates a new sequential execution pipeline with the
// specified identifier, ready to accept executable components.
// The pipeline executes added components in the order they were added.
func NewPipeline(id string) *Pipeline {
	return &Pipeline{
		id:          id,
		executables: make([]ports.Executable, 0),
		idSet:       make(map[string]struct{}),
	}
}

// ID returns the unique identifier for this pipeline.
func (p *Pipeline) ID() string { return p.id }

// Add appends an executable to the end of this pipeline's execution
// sequence. It returns an error for nil executables or duplicate IDs.
func (p *Pipeline) Add(exec ports.Executable) error {
	if exec == nil {
		return fmt.Errorf("executable cannot be nil")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.idSet[exec.ID()]; exists {
		return fmt.Errorf("duplicate executable ID: %s", exec.ID())
	}

	p.executables = append(p.executables, exec)
	p.idSet[exec.ID()] = struct{}{}
	return nil
}

// Executables returns the ordered list of executables in this pipeline.
// The returned slice is a copy and safe for callers to inspect.
func (p *Pipeline) Executables() []ports.Executable {
	p.mu.RLock()
	defer p.mu.RUnlock()

	execs := make([]ports.Executable, len(p.executables))
	copy(execs, p.executables)
	return execs
}

// Execute processes all executables in this pipeline sequentially,
// passing the output state from each executable as input to the next.
// Execute respects context cancellation and returns immediately if the
// context is cancelled between executable runs.
// Execute returns an error if any executable fails, including the
// executable ID in the error message for debugging.
func (p *Pipeline) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	execs := p.Executables()

	currentState := state
	for _, exec := range execs {
		select {
		case <-ctx.Done():
			return currentState, ctx.Err()
		default:
		}

		newState, err := exec.Execute(ctx, currentState)
		if err != nil {
			return currentState, fmt.Errorf("executable %s failed: %w", exec.ID(), err)
		}
		currentState = newState
	}

	return currentState, nil
}
