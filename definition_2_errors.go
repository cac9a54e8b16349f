package scheduler

import (
	"fmt"
	"strings"
)

// ErrMalformedGraph is returned at graph construction time for an edge
// referencing an unknown task, a self loop or a precedence cycle.
type ErrMalformedGraph struct {
	Caller string
	Reason string

	TaskIDs []TaskID
	Issue   error
}

func (e ErrMalformedGraph) Error() string {
	var sb strings.Builder

	sb.WriteString("malformed graph")

	if len(e.Caller) > 0 {
		sb.WriteString(" (" + e.Caller + ")")
	}

	sb.WriteString(": " + e.Reason)

	if len(e.TaskIDs) > 0 {
		sb.WriteString(fmt.Sprintf(" %v", e.TaskIDs))
	}

	if e.Issue != nil {
		sb.WriteString(": " + e.Issue.Error())
	}

	return sb.String()
}

func (e ErrMalformedGraph) Unwrap() error {
	return e.Issue
}

// ErrInvariantViolation signals a search state that a valid graph cannot produce,
// ex. no available task while tasks are still uncommitted.
type ErrInvariantViolation struct {
	Caller    string
	Committed int
	Total     int
}

func (e ErrInvariantViolation) Error() string {
	return fmt.Sprintf(
		"invariant violation in %s: no available task with %d of %d tasks committed",

		e.Caller,
		e.Committed,
		e.Total,
	)
}
