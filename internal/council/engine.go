package council

import (
	"context"
	"errors"
	"strings"
	"time"

	"council/internal/llm"
	"council/internal/plan"
)

var (
	// ErrEmptyPlan means the planner produced no well-formed task blocks.
	ErrEmptyPlan = errors.New("council: planner produced no usable tasks")
	// ErrCyclicPlan means the validated dependency graph contains a cycle;
	// partial waves are never dispatched.
	ErrCyclicPlan = errors.New("council: task plan contains a dependency cycle")
	// ErrNoWorkers means the engine has no model identities to assign.
	ErrNoWorkers = errors.New("council: no worker models configured")
)

// Engine drives deliberation runs against a pool of model backends.
type Engine struct {
	// Default serves any worker identity without a dedicated client, and
	// handles the plan and assemble calls.
	Default llm.Client
	// Clients maps worker identities to their backends.
	Clients map[string]llm.Client
	// Models is the worker pool in round-robin order.
	Models []string

	Events      Publisher
	Broker      llm.PermitBroker
	MaxTasks    int
	TaskTimeout time.Duration
}

type EngineOption func(*Engine)

func WithEvents(p Publisher) EngineOption          { return func(e *Engine) { e.Events = p } }
func WithBroker(b llm.PermitBroker) EngineOption   { return func(e *Engine) { e.Broker = b } }
func WithMaxTasks(n int) EngineOption              { return func(e *Engine) { e.MaxTasks = n } }
func WithTaskTimeout(d time.Duration) EngineOption { return func(e *Engine) { e.TaskTimeout = d } }
func WithClient(model string, c llm.Client) EngineOption {
	return func(e *Engine) { e.Clients[model] = c }
}

// NewEngine wires an engine from a default client and a worker pool.
func NewEngine(def llm.Client, models []string, opts ...EngineOption) *Engine {
	e := &Engine{
		Default:     def,
		Clients:     map[string]llm.Client{},
		Models:      models,
		MaxTasks:    8,
		TaskTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) clientFor(model string) llm.Client {
	if c, ok := e.Clients[strings.TrimSpace(model)]; ok && c != nil {
		return c
	}
	return e.Default
}

// DecomposeResult is the full outcome of a decompose run.
type DecomposeResult struct {
	Tasks        []*plan.Task
	Waves        [][]string
	CriticalPath []string
	Assignments  []plan.Assignment
	TaskOutputs  map[string]string
	FinalAnswer  string
}

// RunDecompose executes the decompose pipeline: plan, parse, validate,
// schedule, assign, dispatch wave by wave, assemble.
func (e *Engine) RunDecompose(ctx context.Context, runID, question string) (*DecomposeResult, error) {
	if len(e.Models) == 0 {
		e.publish(runID, "failed", map[string]any{"error": ErrNoWorkers.Error()})
		return nil, ErrNoWorkers
	}

	e.publish(runID, "plan_requested", map[string]any{"max_tasks": e.MaxTasks})
	planText, err := e.Default.GenerateText(llm.WithStage(ctx, "plan"), buildPlannerPrompt(question, e.MaxTasks))
	if err != nil {
		e.publish(runID, "failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	tasks := plan.ValidateDependencies(plan.ParseTaskPlan(plan.CleanModelOutput(planText)))
	if len(tasks) == 0 {
		e.publish(runID, "failed", map[string]any{"error": ErrEmptyPlan.Error()})
		return nil, ErrEmptyPlan
	}
	e.publish(runID, "plan_parsed", map[string]any{"tasks": len(tasks)})

	sorted := plan.TopologicalSort(tasks)
	if sorted.HasCycle {
		// partial waves are reported for logging only, never dispatched
		e.publish(runID, "failed", map[string]any{
			"error":         ErrCyclicPlan.Error(),
			"partial_waves": len(sorted.Waves),
		})
		return nil, ErrCyclicPlan
	}
	e.publish(runID, "plan_scheduled", map[string]any{
		"waves":         len(sorted.Waves),
		"critical_path": sorted.CriticalPath,
	})

	assignments := plan.AssignWorkers(tasks, e.Models, sorted.Waves)
	outputs, err := e.dispatchWaves(ctx, runID, tasks, sorted.Waves)
	if err != nil {
		e.publish(runID, "failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	final, err := e.Default.GenerateText(llm.WithStage(ctx, "assemble"),
		buildAssemblePrompt(question, tasks, outputs))
	if err != nil {
		e.publish(runID, "failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	e.publish(runID, "completed", map[string]any{"answer_bytes": len(final)})

	return &DecomposeResult{
		Tasks:        tasks,
		Waves:        sorted.Waves,
		CriticalPath: sorted.CriticalPath,
		Assignments:  assignments,
		TaskOutputs:  outputs,
		FinalAnswer:  final,
	}, nil
}
