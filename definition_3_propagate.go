package scheduler

import "slices"

// Propagate returns the tasks legally committable after chosen was appended
// to the reverse build. committed has to include chosen.
//
// Candidates are the previous available tasks without chosen plus the
// predecessors of chosen. A candidate stays only when all its successors are
// committed. The check does not depend on the other candidates, so one
// filtering pass already is the fixed point.
func (g *Graph) Propagate(available []TaskID, chosen TaskID, committed []TaskID) []TaskID {
	isCommitted := make([]bool, len(g.tasks))

	for _, id := range committed {
		isCommitted[id-1] = true
	}

	isCommitted[chosen-1] = true

	return g.propagate(available, chosen, isCommitted)
}

func (g *Graph) propagate(available []TaskID, chosen TaskID, isCommitted []bool) []TaskID {
	candidates := make([]TaskID, 0, len(available)+len(g.dependency[chosen-1]))

	for _, id := range available {
		if id != chosen {
			candidates = append(candidates, id)
		}
	}

	candidates = append(candidates, g.dependency[chosen-1]...)

	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	return slices.DeleteFunc(
		candidates,
		func(candidate TaskID) bool {
			if isCommitted[candidate-1] {
				return true
			}

			for _, successor := range g.precedence[candidate-1] {
				if !isCommitted[successor-1] {
					return true
				}
			}

			return false
		},
	)
}
