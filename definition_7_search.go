package scheduler

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/charmbracelet/log"
)

// Engine runs the best first branch and bound over one graph.
// An engine is not safe for concurrent Solve calls.
type Engine struct {
	graph  *Graph
	params ParamsSearch
	logger *log.Logger
}

func NewEngine(graph *Graph, params *ParamsSearch) (*Engine, error) {
	if graph == nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "NewEngine",
				Issue: goerrors.ErrNilInput{
					InputName: "graph",
				},
			}
	}

	if params == nil {
		params = &ParamsSearch{}
	}

	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	withDefaults := params.withDefaults()

	return &Engine{
			graph:  graph,
			params: withDefaults,
			logger: withDefaults.Logger,
		},
		nil
}

type Result struct {
	Order     []TaskID // true execution order
	Tardiness float64

	Mode         SearchMode
	Iterations   int
	FrontierSize int

	// Exhausted is set when the iteration budget ran out
	// and the answer comes from the greedy completion.
	Exhausted bool
}

func (r *Result) String() string {
	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf(
			"Result{Mode: %s, Tardiness: %.4f, Iterations: %d, FrontierSize: %d, Exhausted: %t}\n",

			r.Mode,
			r.Tardiness,
			r.Iterations,
			r.FrontierSize,
			r.Exhausted,
		),
	)

	sb.WriteString(fmt.Sprintf("Order: %v", r.Order))

	return sb.String()
}

// Solve searches until a complete sequence reaches the top of the frontier
// or the iteration budget is spent, in which case the best partial sequence
// is completed greedily. The only errors are context cancellation
// and ErrInvariantViolation.
func (e *Engine) Solve(ctx context.Context) (*Result, error) {
	numberTasks := e.graph.Len()

	open := newFrontier()
	open.Push(
		&node{
			available: e.graph.FinalTasks(),
		},
	)

	e.logger.Debug(
		"search started",

		"mode", e.params.Mode,
		"tasks", numberTasks,
		"budget", e.params.MaxIterations,
	)

	for iteration := 1; iteration <= e.params.MaxIterations; iteration++ {
		if iteration%_ContextCheckEvery == 0 {
			if errCtx := ctx.Err(); errCtx != nil {
				return nil,
					errCtx
			}
		}

		current := open.PopMin()
		if current == nil {
			return nil,
				ErrInvariantViolation{
					Caller: "Solve - empty frontier",
					Total:  numberTasks,
				}
		}

		if len(current.sequence) == numberTasks {
			e.logger.Debug(
				"search completed",

				"iterations", iteration,
				"tardiness", current.bound,
			)

			return e.result(current.sequence, iteration, open.Len(), false),
				nil
		}

		children, errExpand := e.expand(ctx, current)
		if errExpand != nil {
			return nil,
				errExpand
		}

		for _, child := range children {
			open.Push(child)
		}

		if iteration%e.params.ProgressEvery == 0 {
			keyvals := []any{
				"iteration", iteration,
				"frontier", open.Len(),
				"bound", current.bound,
				"depth", len(current.sequence),
			}

			if best := open.PeekMin(); best != nil {
				keyvals = append(keyvals, "next", best.bound)
			}

			e.logger.Debug("search progress", keyvals...)
		}
	}

	best := open.PopMin()
	if best == nil {
		return nil,
			ErrInvariantViolation{
				Caller: "Solve - empty frontier",
				Total:  numberTasks,
			}
	}

	e.logger.Debug(
		"iteration budget exhausted, completing greedily",

		"depth", len(best.sequence),
		"bound", best.bound,
	)

	sequence, _, errComplete := e.graph.CompleteGreedy(best.sequence, best.available)
	if errComplete != nil {
		return nil,
			errComplete
	}

	return e.result(sequence, e.params.MaxIterations, open.Len(), true),
		nil
}

func (e *Engine) result(reverseBuild []TaskID, iterations, frontierSize int, exhausted bool) *Result {
	return &Result{
		Order:     reversed(reverseBuild),
		Tardiness: e.graph.Tardiness(reverseBuild),

		Mode:         e.params.Mode,
		Iterations:   iterations,
		FrontierSize: frontierSize,
		Exhausted:    exhausted,
	}
}

func (e *Engine) expand(ctx context.Context, parent *node) ([]*node, error) {
	if len(parent.available) == 0 {
		return nil,
			ErrInvariantViolation{
				Caller:    "Solve",
				Committed: len(parent.sequence),
				Total:     e.graph.Len(),
			}
	}

	children := e.children(parent)

	if e.params.Mode == SearchModeBeam {
		return e.selectBeam(ctx, children)
	}

	return children,
		nil
}

// children builds one node per available task, in ascending ID order.
func (e *Engine) children(parent *node) []*node {
	isCommitted := make([]bool, e.graph.Len())

	for _, id := range parent.sequence {
		isCommitted[id-1] = true
	}

	// completion time of the task committed next
	completion := e.graph.TotalDuration()

	for _, id := range parent.sequence {
		completion = completion - e.graph.duration(id)
	}

	result := make([]*node, 0, len(parent.available))

	for _, next := range parent.available {
		sequence := make([]TaskID, len(parent.sequence)+1)
		copy(sequence, parent.sequence)
		sequence[len(parent.sequence)] = next

		isCommitted[next-1] = true
		available := e.graph.propagate(parent.available, next, isCommitted)
		isCommitted[next-1] = false

		// same additions in the same order as Tardiness(sequence)
		bound := parent.bound
		if late := completion - e.graph.dueDate(next); late > 0 {
			bound = bound + late
		}

		result = append(
			result,
			&node{
				sequence:  sequence,
				available: available,
				bound:     bound,
			},
		)
	}

	return result
}

func Solve(ctx context.Context, graph *Graph, params *ParamsSearch) (*Result, error) {
	engine, errCr := NewEngine(graph, params)
	if errCr != nil {
		return nil,
			errCr
	}

	return engine.Solve(ctx)
}
