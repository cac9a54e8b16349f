// Package workflow reads workflow instances from their JSON description and
// writes computed schedules back out.
//
// An input document holds one object per workflow:
//
//	{"workflow_0": {
//	    "due_dates": {"blur_0": 172, "vii_1": 49, ...},
//	    "edge_set": [["vii_1", "blur_0"], ...]
//	}}
//
// Task IDs follow the order of the due_dates keys in the document.
// Each edge lists the task running earlier first.
package workflow

import (
	"errors"
	"fmt"
	"os"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/tidwall/gjson"

	scheduler "github.com/TudorHulban/tardiness"
)

type Instance struct {
	Workflow string
	Tasks    []scheduler.TaskDescriptor
	Edges    [][2]string
}

func Load(path, workflow string) (*Instance, error) {
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		return nil,
			fmt.Errorf("read workflow file: %w", errRead)
	}

	return Parse(data, workflow)
}

func Parse(data []byte, workflow string) (*Instance, error) {
	if !gjson.ValidBytes(data) {
		return nil,
			goerrors.ErrInvalidInput{
				Caller:    "Parse",
				InputName: "data",
				Issue:     errors.New("invalid JSON"),
			}
	}

	root := gjson.ParseBytes(data).Get(gjson.Escape(workflow))
	if !root.IsObject() {
		return nil,
			goerrors.ErrInvalidInput{
				Caller:     "Parse",
				InputName:  "workflow",
				InputValue: workflow,
				Issue:      errors.New("workflow not found"),
			}
	}

	result := Instance{
		Workflow: workflow,
	}

	var errParse error

	durations := root.Get("durations")

	root.Get("due_dates").ForEach(
		func(name, dueDate gjson.Result) bool {
			if dueDate.Type != gjson.Number {
				errParse = goerrors.ErrInvalidInput{
					Caller:     "Parse",
					InputName:  "due_dates." + name.String(),
					InputValue: dueDate.Raw,
				}

				return false
			}

			descriptor := scheduler.TaskDescriptor{
				Name:     name.String(),
				Category: scheduler.CategoryFromName(name.String()),
				DueDate:  dueDate.Float(),
			}

			if duration := durations.Get(gjson.Escape(name.String())); duration.Type == gjson.Number {
				value := duration.Float()
				descriptor.Duration = &value
			}

			result.Tasks = append(result.Tasks, descriptor)

			return true
		},
	)

	if errParse != nil {
		return nil,
			errParse
	}

	if len(result.Tasks) == 0 {
		return nil,
			goerrors.ErrValidation{
				Caller: "Parse",
				Issue: goerrors.ErrNilInput{
					InputName: workflow + ".due_dates",
				},
			}
	}

	root.Get("edge_set").ForEach(
		func(ix, edge gjson.Result) bool {
			ends := edge.Array()

			if len(ends) != 2 || ends[0].Type != gjson.String || ends[1].Type != gjson.String {
				errParse = goerrors.ErrInvalidInput{
					Caller:     "Parse",
					InputName:  fmt.Sprintf("edge_set[%d]", ix.Int()),
					InputValue: edge.Raw,
				}

				return false
			}

			result.Edges = append(
				result.Edges,
				[2]string{
					ends[0].String(),
					ends[1].String(),
				},
			)

			return true
		},
	)

	if errParse != nil {
		return nil,
			errParse
	}

	return &result,
		nil
}

// Graph resolves edge names to task IDs and builds the search graph.
func (instance *Instance) Graph(durations map[string]float64) (*scheduler.Graph, error) {
	idByName := make(map[string]scheduler.TaskID, len(instance.Tasks))

	for ix, task := range instance.Tasks {
		idByName[task.Name] = scheduler.TaskID(ix + 1)
	}

	edges := make([]scheduler.Edge, len(instance.Edges))

	for ix, edge := range instance.Edges {
		earlier, knownEarlier := idByName[edge[0]]
		later, knownLater := idByName[edge[1]]

		if !knownEarlier || !knownLater {
			return nil,
				scheduler.ErrMalformedGraph{
					Caller: "Graph",
					Reason: fmt.Sprintf(
						"edge %d references unknown task: %q -> %q",

						ix,
						edge[0],
						edge[1],
					),
				}
		}

		edges[ix] = scheduler.Edge{
			Earlier: earlier,
			Later:   later,
		}
	}

	return scheduler.NewGraph(
		&scheduler.ParamsNewGraph{
			Tasks:     instance.Tasks,
			Edges:     edges,
			Durations: durations,
		},
	)
}
