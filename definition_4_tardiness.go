package scheduler

// Tardiness evaluates a sequence in reverse build order, last executed task first.
//
// The first task of the list completes when the whole workload is done, at the
// total duration of the graph. Each next task completes when the previous one
// in the list starts. Tasks missing from a partial list are assumed to run
// before the listed ones, so the value is a lower bound for any completion.
func (g *Graph) Tardiness(reverseBuild []TaskID) float64 {
	completion := g.totalDuration

	var result float64

	for _, id := range reverseBuild {
		if late := completion - g.dueDate(id); late > 0 {
			result = result + late
		}

		completion = completion - g.duration(id)
	}

	return result
}

// TardinessOfOrder evaluates a sequence given in true execution order.
func (g *Graph) TardinessOfOrder(executionOrder []TaskID) float64 {
	return g.Tardiness(reversed(executionOrder))
}

type ScheduledTask struct {
	*Task

	Start      float64
	Completion float64
	Tardiness  float64
}

// Schedule lays the execution order on one machine starting at time 0.
func (g *Graph) Schedule(executionOrder []TaskID) []ScheduledTask {
	result := make([]ScheduledTask, len(executionOrder))

	var elapsed float64

	for ix, id := range executionOrder {
		task := g.tasks[id-1]

		result[ix] = ScheduledTask{
			Task:       task,
			Start:      elapsed,
			Completion: elapsed + task.Duration,
			Tardiness:  max(0, elapsed+task.Duration-task.DueDate),
		}

		elapsed = elapsed + task.Duration
	}

	return result
}
