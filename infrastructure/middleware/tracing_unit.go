package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

var _ ports.Unit = (*TracingUnit)(nil)

// tracerName identifies the decision engine's tracer in exported spans.
const tracerName = "decision-engine"

// TracingUnit wraps a criterion unit with OpenTelemetry tracing.
// Each Execute call produces a span carrying the unit name, problem
// context, matrix dimensions, and the ranking outcome.
type TracingUnit struct {
	// unit is the wrapped criterion unit.
	unit ports.Unit
}

// NewTracingUnit wraps unit so that every Execute call is traced.
func NewTracingUnit(unit ports.Unit) (*TracingUnit, error) {
	if unit == nil {
		return nil, fmt.Errorf("unit cannot be nil")
	}
	return &TracingUnit{unit: unit}, nil
}

// Name returns the wrapped unit's name.
func (tu *TracingUnit) Name() string { return tu.unit.Name() }

// Validate delegates to the wrapped unit.
func (tu *TracingUnit) Validate() error { return tu.unit.Validate() }

// Execute runs the wrapped unit inside an OpenTelemetry span.
func (tu *TracingUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("unit.%s", tu.unit.Name()),
		trace.WithAttributes(attribute.String("unit.name", tu.unit.Name())))
	defer span.End()

	if ec, ok := state.GetExecutionContext(); ok {
		span.SetAttributes(
			attribute.String("problem.id", ec.ProblemID),
			attribute.String("problem.criterion", ec.Criterion),
			attribute.String("execution.id", ec.ExecutionID),
		)
	}
	if matrix, ok := domain.Get(state, domain.KeyMatrix); ok {
		span.SetAttributes(
			attribute.Int("matrix.alternatives", matrix.NumAlternatives()),
			attribute.Int("matrix.outcomes", matrix.NumOutcomes()),
		)
	}

	newState, err := tu.unit.Execute(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return newState, err
	}

	if decision, ok := domain.Get(newState, domain.KeyDecision); ok {
		span.AddEvent("decision.ranked", trace.WithAttributes(
			attribute.String("decision.criterion", decision.Criterion),
			attribute.Int("decision.classes", len(decision.Ranking.Classes)),
			attribute.Int64("decision.comparisons", decision.Comparisons),
			attribute.Bool("decision.degenerate", decision.Ranking.Degenerate()),
		))
	}
	span.SetStatus(codes.Ok, "")

	return newState, nil
}
