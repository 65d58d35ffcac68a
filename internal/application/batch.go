package application

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ml297/Decision-Science/internal/domain"
)

// RankAll ranks independent decision matrices concurrently with the given
// ranker and returns the rankings index-aligned with the input.
// Ranking is a pure function of its matrix, so the only coordination
// needed is the bounded worker pool; matrices may even be shared between
// callers because rankers never mutate their input.
// The first ranking error cancels the remaining work and is returned
// with the offending matrix index attached.
func RankAll(ctx context.Context, ranker domain.Ranker, matrices []domain.DecisionMatrix) ([]domain.Ranking, error) {
	rankings := make([]domain.Ranking, len(matrices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, matrix := range matrices {
		i, matrix := i, matrix
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ranking, err := ranker.Rank(matrix)
			if err != nil {
				return fmt.Errorf("matrix %d: %w", i, err)
			}

			rankings[i] = ranking
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rankings, nil
}
