package scheduler

// sortTopological runs Kahn's algorithm, always releasing the lowest ready id first.
// Tasks left with pending predecessors sit on or behind a cycle.
func (g *Graph) sortTopological() ([]TaskID, error) {
	pending := make([]int, len(g.tasks))
	ready := make([]bool, len(g.tasks))

	for ix := range g.tasks {
		pending[ix] = len(g.dependency[ix])
		ready[ix] = pending[ix] == 0
	}

	result := make([]TaskID, 0, len(g.tasks))

	for len(result) < len(g.tasks) {
		next := TaskID(0)

		for ix, isReady := range ready {
			if isReady {
				next = TaskID(ix + 1)

				break
			}
		}

		if next == 0 {
			break
		}

		ready[next-1] = false
		pending[next-1] = -1

		result = append(result, next)

		for _, successor := range g.precedence[next-1] {
			pending[successor-1]--

			if pending[successor-1] == 0 {
				ready[successor-1] = true
			}
		}
	}

	if len(result) == len(g.tasks) {
		return result,
			nil
	}

	var blocked []TaskID

	for ix, count := range pending {
		if count > 0 {
			blocked = append(blocked, TaskID(ix+1))
		}
	}

	return nil,
		ErrMalformedGraph{
			Caller:  "NewGraph",
			Reason:  "precedence cycle through tasks",
			TaskIDs: blocked,
		}
}

// IsFeasible checks that executionOrder is a permutation of all tasks
// honoring every precedence edge.
func (g *Graph) IsFeasible(executionOrder []TaskID) bool {
	if len(executionOrder) != len(g.tasks) {
		return false
	}

	position := make([]int, len(g.tasks))

	for ix, id := range executionOrder {
		if !g.contains(id) || position[id-1] != 0 {
			return false
		}

		position[id-1] = ix + 1
	}

	for ix, successors := range g.precedence {
		for _, later := range successors {
			if position[ix] >= position[later-1] {
				return false
			}
		}
	}

	return true
}
