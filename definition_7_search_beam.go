package scheduler

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// selectBeam keeps the BeamWidth children with the lowest greedy completed tardiness.
// Scores land in index addressed slots, so the pick does not depend on Workers.
func (e *Engine) selectBeam(ctx context.Context, children []*node) ([]*node, error) {
	if len(children) <= e.params.BeamWidth {
		return children,
			nil
	}

	lookahead := make([]float64, len(children))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.params.Workers)

	for ix, child := range children {
		group.Go(
			func() error {
				if errCtx := groupCtx.Err(); errCtx != nil {
					return errCtx
				}

				_, tardiness, errComplete := e.graph.CompleteGreedy(child.sequence, child.available)
				if errComplete != nil {
					return errComplete
				}

				lookahead[ix] = tardiness

				return nil
			},
		)
	}

	if errWait := group.Wait(); errWait != nil {
		return nil,
			errWait
	}

	ranking := make([]int, len(children))
	for ix := range ranking {
		ranking[ix] = ix
	}

	// stable, children come in ascending ID order
	slices.SortStableFunc(
		ranking,
		func(a, b int) int {
			return cmp.Compare(lookahead[a], lookahead[b])
		},
	)

	result := make([]*node, e.params.BeamWidth)

	for ix := range result {
		result[ix] = children[ranking[ix]]
	}

	return result,
		nil
}
