// Command rank ranks the alternatives of a decision problem under
// uncertainty. It loads a problem definition from a YAML file, or ranks
// an inline matrix with a single criterion, and prints the resulting
// equivalence classes from best to worst.
//
// Usage:
//
//	rank -problem problem.yaml
//	rank -matrix "4,12,11,0;6,-4,66,143;5,7,1,6" -criterion leximin
//	rank -matrix "2,9;9,2" -criterion hurwicz -alpha 0.7
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ml297/Decision-Science/infrastructure/criteria"
	"github.com/ml297/Decision-Science/internal/application"
	"github.com/ml297/Decision-Science/internal/domain"
	"github.com/ml297/Decision-Science/internal/ports"
)

func main() {
	var (
		problemPath = flag.String("problem", "", "Path to a YAML problem definition")
		matrixSpec  = flag.String("matrix", "", "Inline matrix: rows separated by ';', outcomes by ','")
		criterion   = flag.String("criterion", criteria.CriterionLeximin, "Criterion for inline matrices: leximin, maximin, or hurwicz")
		alpha       = flag.Float64("alpha", 0.5, "Optimism coefficient for the hurwicz criterion")
		labelSpec   = flag.String("labels", "", "Comma-separated alternative labels for inline matrices")
		withTrace   = flag.Bool("trace", false, "Print the comparison trace for the leximin criterion")
	)
	flag.Parse()

	switch {
	case *problemPath != "" && *matrixSpec != "":
		log.Fatalf("-problem and -matrix are mutually exclusive")
	case *problemPath != "":
		runProblem(*problemPath)
	case *matrixSpec != "":
		runInline(*matrixSpec, *criterion, *alpha, *labelSpec, *withTrace)
	default:
		flag.Usage()
		log.Fatalf("either -problem or -matrix is required")
	}
}

// runProblem loads a problem definition and executes each configured
// criterion against the problem matrix, printing every decision.
func runProblem(path string) {
	ctx := context.Background()
	loader := application.NewProblemLoader(application.NewDefaultUnitRegistry())

	problem, err := loader.LoadFromFile(ctx, path)
	if err != nil {
		log.Fatalf("Failed to load problem: %v", err)
	}

	fmt.Printf("Problem: %s\n", problem.Config.Metadata.Name)
	fmt.Printf("Matrix:  %s\n", problem.Matrix)

	// Each executable runs against the same base state so every
	// criterion's decision can be reported, not just the last one.
	base := domain.With(domain.NewState(), domain.KeyMatrix, problem.Matrix)

	var comparisons int64
	for _, executable := range problem.Pipeline.Executables() {
		state, err := executable.Execute(ctx, base)
		if err != nil {
			log.Fatalf("Criterion %s failed: %v", executable.ID(), err)
		}

		decision, ok := domain.Get(state, domain.KeyDecision)
		if !ok {
			continue
		}
		comparisons += decision.Comparisons

		fmt.Printf("\nCriterion %s (%s):\n", executable.ID(), decision.Criterion)
		printRanking(decision.Ranking, problem.Labels, true)
	}

	fmt.Printf("\nTotal comparisons: %d\n", comparisons)
}

// runInline ranks a single inline matrix with one criterion unit.
func runInline(matrixSpec, criterion string, alpha float64, labelSpec string, withTrace bool) {
	rows, err := parseMatrix(matrixSpec)
	if err != nil {
		log.Fatalf("Invalid matrix: %v", err)
	}
	matrix, err := domain.NewDecisionMatrix(rows)
	if err != nil {
		log.Fatalf("Invalid matrix: %v", err)
	}

	labels := parseLabels(labelSpec, matrix.NumAlternatives())

	unit, err := buildUnit(criterion, alpha, withTrace)
	if err != nil {
		log.Fatalf("Failed to build criterion unit: %v", err)
	}

	state := domain.With(domain.NewState(), domain.KeyMatrix, matrix)
	state, err = unit.Execute(context.Background(), state)
	if err != nil {
		log.Fatalf("Ranking failed: %v", err)
	}

	decision, ok := domain.Get(state, domain.KeyDecision)
	if !ok {
		log.Fatalf("Ranking produced no decision")
	}

	fmt.Printf("Matrix:    %s\n", matrix)
	fmt.Printf("Criterion: %s\n\n", decision.Criterion)
	printRanking(decision.Ranking, labels, withTrace)
	fmt.Printf("\nComparisons: %d\n", decision.Comparisons)
}

// buildUnit constructs the criterion unit named by the -criterion flag.
func buildUnit(criterion string, alpha float64, withTrace bool) (ports.Unit, error) {
	switch criterion {
	case criteria.CriterionLeximin:
		config := criteria.DefaultLeximinConfig()
		config.WithTrace = withTrace
		return criteria.NewLeximinUnit("cli", config)
	case criteria.CriterionMaximin:
		return criteria.NewMaximinUnit("cli", criteria.DefaultMaximinConfig())
	case criteria.CriterionHurwicz:
		config := criteria.DefaultHurwiczConfig()
		config.Alpha = alpha
		return criteria.NewHurwiczUnit("cli", config)
	default:
		return nil, fmt.Errorf("unknown criterion %q", criterion)
	}
}

// printRanking writes the equivalence classes from best to worst, one
// class per line, with labels when available.
func printRanking(ranking domain.Ranking, labels []string, withTrace bool) {
	for rank, class := range ranking.Classes {
		names := make([]string, len(class))
		for i, idx := range class {
			if idx < len(labels) {
				names[i] = fmt.Sprintf("%s (#%d)", labels[idx], idx)
			} else {
				names[i] = fmt.Sprintf("#%d", idx)
			}
		}
		fmt.Printf("  %d. %s\n", rank+1, strings.Join(names, " = "))
	}
	if ranking.Degenerate() {
		fmt.Println("  (all alternatives are equivalent)")
	}

	if withTrace && len(ranking.Trace) > 0 {
		fmt.Println("\nTrace:")
		for _, step := range ranking.Trace {
			fmt.Printf("  depth %d: %g beats %g\n", step.Depth, step.BetterValue, step.WorseValue)
		}
	}
}

// parseMatrix parses "a,b;c,d" into rows of outcomes.
func parseMatrix(spec string) ([][]float64, error) {
	rowSpecs := strings.Split(spec, ";")
	rows := make([][]float64, 0, len(rowSpecs))
	for i, rowSpec := range rowSpecs {
		fields := strings.Split(rowSpec, ",")
		row := make([]float64, 0, len(fields))
		for _, field := range fields {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseLabels splits the -labels flag, padding with generated names so
// every alternative has a label.
func parseLabels(spec string, count int) []string {
	var labels []string
	if spec != "" {
		for _, label := range strings.Split(spec, ",") {
			labels = append(labels, strings.TrimSpace(label))
		}
	}
	for len(labels) < count {
		labels = append(labels, fmt.Sprintf("alternative-%d", len(labels)))
	}
	return labels[:count]
}
