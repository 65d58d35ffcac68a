// Package criteria provides decision-rule units that implement the
// ports.Unit interface for the decision engine. Each unit applies one
// criterion for choice under uncertainty (leximin, maximin, Hurwicz) to a
// decision matrix and produces a ranking of its alternatives.
package criteria

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ml297/Decision-Science/internal/domain"
)

// TieHandling represents the policy for reporting alternatives that a
// criterion cannot distinguish.
type TieHandling string

// Supported tie policies for criterion units.
const (
	// TieClasses reports tied alternatives as equivalence classes in the
	// ranking. This is the default and never loses information; callers
	// decide how to break ties.
	TieClasses TieHandling = "classes"

	// TieError returns an error when any equivalence class holds more
	// than one alternative. Useful when a unique ranking is required and
	// ambiguity must be handled explicitly by the caller.
	TieError TieHandling = "error"
)

// Common errors returned by criterion units.
var (
	// ErrTie is returned when alternatives are tied and TieError is configured.
	ErrTie = errors.New("alternatives tied under criterion")

	// ErrEmptyUnitName is returned when attempting to create a unit with an empty name.
	ErrEmptyUnitName = fmt.Errorf("unit name cannot be empty: %w", domain.ErrEmptyValue)

	// ErrMissingMatrix is returned when Execute finds no decision matrix in state.
	ErrMissingMatrix = fmt.Errorf("decision matrix not found in state: %w", domain.ErrKeyNotFound)
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// minOf returns the smallest value in row. Row must be non-empty, which
// DecisionMatrix guarantees.
func minOf(row []float64) float64 {
	m := row[0]
	for _, v := range row[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// maxOf returns the largest value in row. Row must be non-empty.
func maxOf(row []float64) float64 {
	m := row[0]
	for _, v := range row[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// classesByScore groups alternative indices into equivalence classes by
// descending score. Indices with exactly equal scores share a class;
// within a class indices stay in ascending order. It also returns the
// number of pairwise comparisons the grouping performed, for
// observability.
func classesByScore(scores []float64) ([][]int, int64) {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}

	var comparisons int64
	// Insertion sort keeps the comparison count honest and is plenty fast
	// for the alternative counts decision problems see in practice.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0; j-- {
			comparisons++
			if scores[idx[j-1]] >= scores[idx[j]] {
				break
			}
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}

	var classes [][]int
	for _, i := range idx {
		if len(classes) > 0 {
			last := classes[len(classes)-1]
			if scores[last[0]] == scores[i] {
				classes[len(classes)-1] = append(last, i)
				continue
			}
		}
		classes = append(classes, []int{i})
	}
	return classes, comparisons
}
