package scheduler

import (
	"errors"
	"fmt"
	"math"
	"slices"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
)

// Graph is the immutable workflow the search runs on.
// Slices are indexed by task ID - 1.
type Graph struct {
	tasks []*Task

	// precedence holds the true order successors, which the reverse build
	// needs committed before the task becomes available.
	precedence [][]TaskID

	// dependency holds the true order predecessors, unblocked once the task is committed.
	dependency [][]TaskID

	idByName map[string]TaskID

	finalTasks  []TaskID
	firstTasks  []TaskID
	topological []TaskID

	totalDuration float64
}

type ParamsNewGraph struct {
	Tasks []TaskDescriptor `valid:"required"`
	Edges []Edge

	// Durations resolves a task category to its duration.
	Durations map[string]float64
}

func (params *ParamsNewGraph) resolveDuration(ix int) (float64, error) {
	descriptor := params.Tasks[ix]

	if descriptor.Duration != nil {
		return *descriptor.Duration,
			nil
	}

	category := descriptor.category()

	duration, exists := params.Durations[category]
	if !exists {
		return 0,
			goerrors.ErrInvalidInput{
				Caller:     "NewGraph",
				InputName:  fmt.Sprintf("Tasks[%d].Category", ix),
				InputValue: category,
				Issue: errors.New(
					"no duration configured for category",
				),
			}
	}

	return duration,
		nil
}

func NewGraph(params *ParamsNewGraph) (*Graph, error) {
	if params == nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "NewGraph",
				Issue: goerrors.ErrNilInput{
					InputName: "ParamsNewGraph",
				},
			}
	}

	if _, errValidation := govalidator.ValidateStruct(params); errValidation != nil {
		return nil,
			goerrors.ErrServiceValidation{
				ServiceName: "Graph",
				Caller:      "NewGraph",
				Issue:       errValidation,
			}
	}

	numberTasks := len(params.Tasks)

	result := Graph{
		tasks:      make([]*Task, numberTasks),
		precedence: make([][]TaskID, numberTasks),
		dependency: make([][]TaskID, numberTasks),
		idByName:   make(map[string]TaskID, numberTasks),
	}

	for ix, descriptor := range params.Tasks {
		if len(descriptor.Name) == 0 {
			return nil,
				goerrors.ErrValidation{
					Caller: "NewGraph",
					Issue: goerrors.ErrNilInput{
						InputName: fmt.Sprintf("Tasks[%d].Name", ix),
					},
				}
		}

		if _, duplicate := result.idByName[descriptor.Name]; duplicate {
			return nil,
				goerrors.ErrInvalidInput{
					Caller:     "NewGraph",
					InputName:  fmt.Sprintf("Tasks[%d].Name", ix),
					InputValue: descriptor.Name,
					Issue: errors.New(
						"duplicate task name",
					),
				}
		}

		duration, errDuration := params.resolveDuration(ix)
		if errDuration != nil {
			return nil,
				errDuration
		}

		if math.IsNaN(duration) || math.IsInf(duration, 0) {
			return nil,
				goerrors.ErrInvalidInput{
					Caller:     "NewGraph",
					InputName:  fmt.Sprintf("Tasks[%d].Duration", ix),
					InputValue: duration,
				}
		}

		if duration < 0 {
			return nil,
				goerrors.ErrValidation{
					Caller: "NewGraph",
					Issue: goerrors.ErrNegativeInput{
						InputName: fmt.Sprintf("Tasks[%d].Duration", ix),
					},
				}
		}

		if math.IsNaN(descriptor.DueDate) || math.IsInf(descriptor.DueDate, 0) {
			return nil,
				goerrors.ErrInvalidInput{
					Caller:     "NewGraph",
					InputName:  fmt.Sprintf("Tasks[%d].DueDate", ix),
					InputValue: descriptor.DueDate,
				}
		}

		id := TaskID(ix + 1)

		result.tasks[ix] = &Task{
			ID:       id,
			Name:     descriptor.Name,
			Category: descriptor.category(),
			Duration: duration,
			DueDate:  descriptor.DueDate,
		}

		result.idByName[descriptor.Name] = id
		result.totalDuration = result.totalDuration + duration
	}

	if errEdges := result.addEdges(params.Edges); errEdges != nil {
		return nil,
			errEdges
	}

	topological, errCycle := result.sortTopological()
	if errCycle != nil {
		return nil,
			errCycle
	}

	result.topological = topological

	for ix := range result.tasks {
		if len(result.precedence[ix]) == 0 {
			result.finalTasks = append(result.finalTasks, TaskID(ix+1))
		}

		if len(result.dependency[ix]) == 0 {
			result.firstTasks = append(result.firstTasks, TaskID(ix+1))
		}
	}

	return &result,
		nil
}

func (g *Graph) addEdges(edges []Edge) error {
	for _, edge := range edges {
		for _, id := range [2]TaskID{edge.Earlier, edge.Later} {
			if !g.contains(id) {
				return ErrMalformedGraph{
					Caller:  "NewGraph",
					Reason:  "edge references unknown task",
					TaskIDs: []TaskID{edge.Earlier, edge.Later},
					Issue: goerrors.ErrInvalidInput{
						InputName:  "Edges",
						InputValue: id,
					},
				}
			}
		}

		if edge.Earlier == edge.Later {
			return ErrMalformedGraph{
				Caller:  "NewGraph",
				Reason:  "self loop",
				TaskIDs: []TaskID{edge.Earlier},
			}
		}

		successors := g.precedence[edge.Earlier-1]

		if slices.Contains(successors, edge.Later) {
			continue
		}

		g.precedence[edge.Earlier-1] = append(successors, edge.Later)
		g.dependency[edge.Later-1] = append(g.dependency[edge.Later-1], edge.Earlier)
	}

	for ix := range g.tasks {
		slices.Sort(g.precedence[ix])
		slices.Sort(g.dependency[ix])
	}

	return nil
}

func (g *Graph) contains(id TaskID) bool {
	return id >= 1 && int(id) <= len(g.tasks)
}

// Len returns the number of tasks N.
func (g *Graph) Len() int {
	return len(g.tasks)
}

func (g *Graph) Task(id TaskID) (*Task, error) {
	if !g.contains(id) {
		return nil,
			goerrors.ErrInvalidInput{
				Caller:     "Task",
				InputName:  "id",
				InputValue: id,
			}
	}

	return g.tasks[id-1],
		nil
}

// Tasks returns the tasks in ID order.
func (g *Graph) Tasks() []*Task {
	return slices.Clone(g.tasks)
}

func (g *Graph) IDOf(name string) (TaskID, bool) {
	id, exists := g.idByName[name]

	return id, exists
}

func (g *Graph) Names(sequence []TaskID) []string {
	result := make([]string, len(sequence))

	for ix, id := range sequence {
		result[ix] = g.tasks[id-1].Name
	}

	return result
}

// Precedence returns the true order successors of the task.
func (g *Graph) Precedence(id TaskID) []TaskID {
	return g.precedence[id-1]
}

// Dependency returns the true order predecessors of the task.
func (g *Graph) Dependency(id TaskID) []TaskID {
	return g.dependency[id-1]
}

func (g *Graph) Edges() []Edge {
	var result []Edge

	for ix, successors := range g.precedence {
		for _, later := range successors {
			result = append(
				result,
				Edge{
					Earlier: TaskID(ix + 1),
					Later:   later,
				},
			)
		}
	}

	return result
}

// FinalTasks are the tasks without successors, where the reverse build starts.
func (g *Graph) FinalTasks() []TaskID {
	return slices.Clone(g.finalTasks)
}

// FirstTasks are the tasks without predecessors, where the reverse build ends.
func (g *Graph) FirstTasks() []TaskID {
	return slices.Clone(g.firstTasks)
}

func (g *Graph) TopologicalOrder() []TaskID {
	return slices.Clone(g.topological)
}

func (g *Graph) TotalDuration() float64 {
	return g.totalDuration
}

func (g *Graph) duration(id TaskID) float64 {
	return g.tasks[id-1].Duration
}

func (g *Graph) dueDate(id TaskID) float64 {
	return g.tasks[id-1].DueDate
}
