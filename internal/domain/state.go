// Package domain contains pure, dependency-free domain models and types
// for the decision engine.
package domain

import (
	"fmt"
	"maps"
	"reflect"
	"time"
)

// StateKey names an entry in State. The typed Key[T] wrapper is the
// preferred way to address entries; StateKey exists for error reporting
// and raw access.
type StateKey = string

// Key represents a type-safe generic key for accessing values in State.
// The type parameter T ensures compile-time type safety when getting and
// setting values, eliminating the need for runtime type assertions.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
// This function is provided for creating keys outside of the domain package.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Predefined state keys used throughout a ranking run.
// Each key is strongly typed to ensure type safety at compile time.
var (
	// KeyMatrix stores the decision matrix being ranked.
	KeyMatrix = Key[DecisionMatrix]{"matrix"}

	// KeyLabels stores optional human-readable alternative labels,
	// index-aligned with the matrix rows.
	KeyLabels = Key[[]string]{"labels"}

	// KeyDecision stores the final decision produced by a criterion unit.
	KeyDecision = Key[*Decision]{"decision"}

	// Execution context keys for tracking metadata across pipeline runs.

	// KeyProblemID stores the identifier of the decision problem being
	// solved, used for tracking and observability.
	KeyProblemID = Key[string]{"execution.problem_id"}

	// KeyCriterion stores the name of the decision criterion being applied
	// (e.g. "leximin", "maximin", "hurwicz").
	KeyCriterion = Key[string]{"execution.criterion"}

	// KeyExecutionID stores a unique identifier for this specific execution
	// instance, useful for tracing and correlation.
	KeyExecutionID = Key[string]{"execution.execution_id"}

	// KeyComparisonsMade tracks cumulative pairwise comparisons performed
	// across the pipeline, feeding the metrics middleware.
	KeyComparisonsMade = Key[int64]{"execution.comparisons_made"}
)

// deepCopyValue creates a deep copy of a value to ensure true immutability.
// It handles slices, maps, and other reference types that would otherwise
// allow external modification of State data.
func deepCopyValue(value any) any {
	if value == nil {
		return nil
	}

	// time.Time is immutable and can be returned directly.
	if val, ok := value.(time.Time); ok {
		return val
	}

	// DecisionMatrix is immutable by construction, so sharing it is safe.
	if val, ok := value.(DecisionMatrix); ok {
		return val
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice:
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(reflect.ValueOf(deepCopyValue(v.Index(i).Interface())))
		}
		return newSlice.Interface()

	case reflect.Map:
		newMap := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			copiedKey := deepCopyValue(key.Interface())
			copiedValue := deepCopyValue(v.MapIndex(key).Interface())
			newMap.SetMapIndex(reflect.ValueOf(copiedKey), reflect.ValueOf(copiedValue))
		}
		return newMap.Interface()

	case reflect.Ptr:
		if v.IsNil() {
			return v.Interface()
		}
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(reflect.ValueOf(deepCopyValue(v.Elem().Interface())))
		return newPtr.Interface()

	case reflect.Struct:
		// This performs a shallow copy for unexported fields but deep copies
		// exported fields.
		newStruct := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if newStruct.Field(i).CanSet() {
				newStruct.Field(i).Set(reflect.ValueOf(deepCopyValue(v.Field(i).Interface())))
			}
		}
		return newStruct.Interface()

	default:
		// Primitive types are returned as-is since they are copied by value.
		return value
	}
}

// State represents an immutable collection of decision data that flows
// through a pipeline of criterion units. It uses copy-on-write semantics
// to ensure thread-safety and prevent unintended mutations. State is the
// primary data structure for passing information between Units.
type State struct {
	// data holds the key-value pairs that make up the state.
	// It is unexported to maintain immutability guarantees.
	data map[string]any
}

// NewState creates a new empty State.
// The returned State is ready to use and can be safely shared across
// goroutines.
func NewState() State {
	return State{
		data: make(map[string]any),
	}
}

// Get retrieves a value from the State with compile-time type safety.
// It returns the value and a boolean indicating whether the key exists
// and contains a value of the correct type. The returned value is a deep
// copy to maintain immutability.
//
// Example:
//
//	matrix, ok := Get(state, KeyMatrix)
//	if !ok {
//	    // handle missing value
//	}
//	// matrix is typed as DecisionMatrix, no type assertion needed
func Get[T any](s State, key Key[T]) (T, bool) {
	var zero T
	value, exists := s.data[key.name]
	if !exists {
		return zero, false
	}

	copied := deepCopyValue(value)
	val, ok := copied.(T)
	return val, ok
}

// GetRaw is a method version of Get that uses a string key.
// For type safety, use the generic Get function instead.
func (s State) GetRaw(keyName string) (any, bool) {
	value, exists := s.data[keyName]
	if !exists {
		return nil, false
	}
	return deepCopyValue(value), true
}

// With creates a new State with the specified key-value pair added or
// updated. It implements copy-on-write semantics, returning a new State
// instance while leaving the original unchanged. This function is the
// primary way to add or update data in a State.
//
// Example:
//
//	newState := With(state, KeyMatrix, matrix)
func With[T any](s State, key Key[T], value T) State {
	newData := maps.Clone(s.data)
	newData[key.name] = deepCopyValue(value)
	return State{data: newData}
}

// WithRaw is a method version of With that uses a string key and allows
// chaining. For type safety, use the generic With function instead.
func (s State) WithRaw(keyName string, value any) State {
	newData := maps.Clone(s.data)
	newData[keyName] = deepCopyValue(value)
	return State{data: newData}
}

// WithMultiple creates a new State with multiple key-value pairs added
// or updated. It is more efficient than chaining multiple With calls as
// it performs a single clone operation. The updates map uses string keys
// for flexibility when updating multiple values at once.
func (s State) WithMultiple(updates map[string]any) State {
	newData := maps.Clone(s.data)
	for k, v := range updates {
		newData[k] = deepCopyValue(v)
	}
	return State{data: newData}
}

// Keys returns all keys present in the State.
// The returned slice can be used to iterate over all stored values and
// is safe to modify without affecting the original State.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// String returns a string representation of the State for debugging purposes.
func (s State) String() string {
	return fmt.Sprintf("State%v", s.data)
}

// ExecutionContext contains metadata about the current ranking execution
// that flows through the State during pipeline traversal. It provides
// consistent access to execution metadata for middleware and observability.
type ExecutionContext struct {
	// ProblemID is the identifier of the decision problem being solved.
	ProblemID string

	// Criterion names the decision rule being applied.
	Criterion string

	// ExecutionID is a unique identifier for this specific execution
	// instance, useful for tracing and correlation.
	ExecutionID string
}

// WithExecutionContext creates a new State with execution context metadata
// included, enabling proper tracking and observability. This method should
// be called at the beginning of pipeline execution.
func (s State) WithExecutionContext(ctx ExecutionContext) State {
	updates := map[string]any{
		KeyProblemID.name:       ctx.ProblemID,
		KeyCriterion.name:       ctx.Criterion,
		KeyExecutionID.name:     ctx.ExecutionID,
		KeyComparisonsMade.name: int64(0),
	}
	return s.WithMultiple(updates)
}

// GetExecutionContext extracts execution context metadata from the State.
// It returns the execution context and a boolean indicating whether all
// required context fields are present and valid.
func (s State) GetExecutionContext() (ExecutionContext, bool) {
	problemID, ok1 := Get(s, KeyProblemID)
	criterion, ok2 := Get(s, KeyCriterion)
	executionID, ok3 := Get(s, KeyExecutionID)

	if !ok1 || !ok2 || !ok3 {
		return ExecutionContext{}, false
	}

	return ExecutionContext{
		ProblemID:   problemID,
		Criterion:   criterion,
		ExecutionID: executionID,
	}, true
}

// AddComparisons creates a new State with the cumulative comparison
// counter incremented by delta. Criterion units call this after ranking
// so that middleware can report comparison counts without recomputing.
func (s State) AddComparisons(delta int64) State {
	current, _ := Get(s, KeyComparisonsMade)
	return With(s, KeyComparisonsMade, current+delta)
}

// GetComparisons retrieves the cumulative pairwise comparison count from
// the State. It returns zero when no unit has recorded comparisons yet.
func (s State) GetComparisons() int64 {
	count, _ := Get(s, KeyComparisonsMade)
	return count
}
