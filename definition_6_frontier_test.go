package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrontier(t *testing.T) {
	f := newFrontier()
	require.Nil(t, f.PopMin())
	require.Nil(t, f.PeekMin())

	for ix, bound := range []float64{3, 1, 2, 1, 0.5} {
		f.Push(
			&node{
				sequence: []TaskID{TaskID(ix + 1)},
				bound:    bound,
			},
		)
	}

	require.Equal(t, 5, f.Len())
	require.Equal(t, 0.5, f.PeekMin().bound)

	var popped []TaskID

	for f.Len() > 0 {
		popped = append(popped, f.PopMin().sequence[0])
	}

	// equal bounds come out newest first
	require.Equal(t, []TaskID{5, 4, 2, 3, 1}, popped)
}
