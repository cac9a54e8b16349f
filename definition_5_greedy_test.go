package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompleteGreedy(t *testing.T) {
	t.Run(
		"1. example from scratch",
		func(t *testing.T) {
			graph := graphExample(t)

			sequence, tardiness, errComplete := graph.CompleteGreedy(nil, graph.FinalTasks())
			require.NoError(t, errComplete)
			require.Equal(t, []TaskID{2, 3, 1}, sequence)
			require.Equal(t, 2.0, tardiness)
		},
	)

	t.Run(
		"2. diamond picks the earliest due middle task",
		func(t *testing.T) {
			graph := graphDiamond(t)

			sequence, tardiness, errComplete := graph.CompleteGreedy(nil, graph.FinalTasks())
			require.NoError(t, errComplete)
			require.Equal(t, []TaskID{4, 3, 2, 1}, sequence)
			require.Equal(t, 14.0, tardiness)
		},
	)

	t.Run(
		"3. partial is kept and not mutated",
		func(t *testing.T) {
			graph := graphDiamond(t)

			partial := []TaskID{4, 2}
			available := []TaskID{3}

			sequence, tardiness, errComplete := graph.CompleteGreedy(partial, available)
			require.NoError(t, errComplete)
			require.Equal(t, []TaskID{4, 2, 3, 1}, sequence)
			require.Equal(t, 10.0, tardiness)
			require.Equal(t, []TaskID{4, 2}, partial)
		},
	)

	t.Run(
		"4. complete input returned as is",
		func(t *testing.T) {
			graph := graphDiamond(t)

			sequence, tardiness, errComplete := graph.CompleteGreedy([]TaskID{4, 2, 3, 1}, nil)
			require.NoError(t, errComplete)
			require.Equal(t, []TaskID{4, 2, 3, 1}, sequence)
			require.Equal(t, 10.0, tardiness)
		},
	)

	t.Run(
		"5. no available task left",
		func(t *testing.T) {
			graph := graphDiamond(t)

			_, _, errComplete := graph.CompleteGreedy([]TaskID{4}, nil)

			var errInvariant ErrInvariantViolation
			require.ErrorAs(t, errComplete, &errInvariant)
			require.Equal(t, 1, errInvariant.Committed)
		},
	)

	t.Run(
		"6. ties go to the lowest ID",
		func(t *testing.T) {
			graph, errCr := NewGraph(
				&ParamsNewGraph{
					Tasks: []TaskDescriptor{
						{Name: "x", Duration: ptr(1.0), DueDate: 1},
						{Name: "y", Duration: ptr(1.0), DueDate: 1},
						{Name: "z", Duration: ptr(1.0), DueDate: 1},
					},
				},
			)
			require.NoError(t, errCr)

			sequence, _, errComplete := graph.CompleteGreedy(nil, graph.FinalTasks())
			require.NoError(t, errComplete)
			require.Equal(t, []TaskID{1, 2, 3}, sequence)
		},
	)
}

func TestCompleteGreedyFeasible(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		graph := graphRandom(t, seed, 10, 0.3)

		// start from several depths of an arbitrary reverse build
		var partial []TaskID

		available := graph.FinalTasks()

		for len(available) > 0 {
			sequence, tardiness, errComplete := graph.CompleteGreedy(partial, available)
			require.NoError(t, errComplete)
			require.True(t, graph.IsFeasible(reversed(sequence)), "seed %d", seed)
			require.Equal(t, graph.Tardiness(sequence), tardiness)

			next := available[0]

			partial = append(partial, next)
			available = graph.Propagate(available, next, partial)
		}
	}
}
