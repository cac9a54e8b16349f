package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropagate(t *testing.T) {
	graph := graphDiamond(t)

	tests := []struct {
		name      string
		available []TaskID
		chosen    TaskID
		committed []TaskID
		want      []TaskID
	}{
		{
			name:      "1. sink unblocks both middle tasks",
			available: []TaskID{4},
			chosen:    4,
			committed: []TaskID{4},
			want:      []TaskID{2, 3},
		},
		{
			name:      "2. source waits for the other middle task",
			available: []TaskID{2, 3},
			chosen:    3,
			committed: []TaskID{4, 3},
			want:      []TaskID{2},
		},
		{
			name:      "3. source released",
			available: []TaskID{2},
			chosen:    2,
			committed: []TaskID{4, 3, 2},
			want:      []TaskID{1},
		},
		{
			name:      "4. last task",
			available: []TaskID{1},
			chosen:    1,
			committed: []TaskID{4, 3, 2, 1},
			want:      []TaskID{},
		},
		{
			name:      "5. chosen missing from committed is still counted",
			available: []TaskID{4},
			chosen:    4,
			committed: nil,
			want:      []TaskID{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				got := graph.Propagate(tt.available, tt.chosen, tt.committed)
				require.Equal(t, tt.want, got)

				// no hidden state
				require.Equal(t,
					got,
					graph.Propagate(tt.available, tt.chosen, tt.committed),
				)
			},
		)
	}
}

func TestPropagateDoesNotMutateInput(t *testing.T) {
	graph := graphDiamond(t)

	available := []TaskID{2, 3}
	committed := []TaskID{4, 3}

	_ = graph.Propagate(available, 3, committed)

	require.Equal(t, []TaskID{2, 3}, available)
	require.Equal(t, []TaskID{4, 3}, committed)
}

// Walking any reverse build with Propagate yields true orders that are feasible.
func TestPropagateFeasibility(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		graph := graphRandom(t, seed, 10, 0.35)

		var sequence []TaskID

		available := graph.FinalTasks()

		for len(available) > 0 {
			// take the highest ID to differ from the greedy rule
			next := available[len(available)-1]

			sequence = append(sequence, next)
			available = graph.Propagate(available, next, sequence)
		}

		require.Len(t, sequence, graph.Len(), "seed %d", seed)
		require.True(t, graph.IsFeasible(reversed(sequence)), "seed %d", seed)
	}
}
