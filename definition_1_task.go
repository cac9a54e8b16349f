package scheduler

import (
	"fmt"
	"strings"
)

// TaskID identifies a task inside a graph, 1..N in descriptor order.
type TaskID int

type Task struct {
	Name     string
	Category string
	Duration float64
	DueDate  float64

	ID TaskID
}

func (t *Task) String() string {
	return fmt.Sprintf(
		"Task{ID: %d, Name: %q, Duration: %.4f, DueDate: %.4f}",

		t.ID,
		t.Name,
		t.Duration,
		t.DueDate,
	)
}

// TaskDescriptor is the raw task as handed over by a loader.
// Duration, when nil, is resolved from the category table of the graph params.
type TaskDescriptor struct {
	Name     string
	Category string
	DueDate  float64
	Duration *float64
}

func (d TaskDescriptor) category() string {
	return ternary(
		len(d.Category) > 0,

		d.Category,
		CategoryFromName(d.Name),
	)
}

// CategoryFromName returns the name prefix before the first underscore,
// ex. "blur_12" belongs to category "blur".
func CategoryFromName(name string) string {
	category, _, _ := strings.Cut(name, "_")

	return category
}

// Edge is a precedence constraint in true execution order:
// Earlier has to run before Later.
type Edge struct {
	Earlier TaskID
	Later   TaskID
}
