package scheduler

import "slices"

// CompleteGreedy extends the partial reverse build until all tasks are committed,
// each step taking the available task with the earliest due date, lowest ID on ties.
// The returned sequence is still in reverse build order; partial is not modified.
func (g *Graph) CompleteGreedy(partial, available []TaskID) ([]TaskID, float64, error) {
	sequence := make([]TaskID, len(partial), len(g.tasks))
	copy(sequence, partial)

	isCommitted := make([]bool, len(g.tasks))

	for _, id := range sequence {
		isCommitted[id-1] = true
	}

	current := slices.Clone(available)

	for len(sequence) < len(g.tasks) {
		if len(current) == 0 {
			return nil,
				0,
				ErrInvariantViolation{
					Caller:    "CompleteGreedy",
					Committed: len(sequence),
					Total:     len(g.tasks),
				}
		}

		next := g.earliestDue(current)

		sequence = append(sequence, next)
		isCommitted[next-1] = true

		current = g.propagate(current, next, isCommitted)
	}

	return sequence,
		g.Tardiness(sequence),
		nil
}

func (g *Graph) earliestDue(available []TaskID) TaskID {
	result := available[0]

	for _, id := range available[1:] {
		if g.dueDate(id) < g.dueDate(result) ||
			(g.dueDate(id) == g.dueDate(result) && id < result) {
			result = id
		}
	}

	return result
}
