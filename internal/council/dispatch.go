package council

import (
	"context"

	"council/internal/llm"
	"council/internal/plan"
)

type taskResult struct {
	id     string
	output string
	err    error
}

// dispatchWaves runs each wave's tasks concurrently: one goroutine per task
// with an independent timeout. A wave must settle completely before the next
// one starts, because later tasks read earlier outputs as prompt context.
// A failed or timed-out task records a "[FAILED] ..." placeholder instead of
// aborting the wave; its dependents see the marker and route around it.
func (e *Engine) dispatchWaves(ctx context.Context, runID string, tasks []*plan.Task, waves [][]string) (map[string]string, error) {
	byID := make(map[string]*plan.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	outputs := make(map[string]string, len(tasks))
	for wi, wave := range waves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.publish(runID, "wave_started", map[string]any{"wave": wi + 1, "tasks": wave})

		launchCtx := ctx
		if e.Broker != nil {
			lease, err := e.Broker.Reserve(ctx, len(wave))
			if err != nil {
				return nil, err
			}
			launchCtx = lease.Context(ctx)
		}

		results := make(chan taskResult, len(wave))
		for _, id := range wave {
			t, ok := byID[id]
			if !ok {
				continue
			}
			prompt := buildTaskPrompt(t, outputs)
			go e.runTask(launchCtx, t, prompt, results)
		}

		// all tasks settle, success or failure, before the next wave
		for range wave {
			res := <-results
			if res.err != nil {
				outputs[res.id] = "[FAILED] " + res.err.Error()
				e.publish(runID, "task_failed", map[string]any{
					"wave": wi + 1, "task": res.id, "error": res.err.Error(),
				})
				continue
			}
			outputs[res.id] = res.output
			e.publish(runID, "task_completed", map[string]any{"wave": wi + 1, "task": res.id})
		}
		e.publish(runID, "wave_completed", map[string]any{"wave": wi + 1})
	}
	return outputs, nil
}

func (e *Engine) runTask(ctx context.Context, t *plan.Task, prompt string, results chan<- taskResult) {
	taskCtx := llm.WithStage(ctx, "task:"+t.ID)
	if e.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, e.TaskTimeout)
		defer cancel()
	}
	out, err := e.clientFor(t.AssignedModel).GenerateText(taskCtx, prompt)
	results <- taskResult{id: t.ID, output: out, err: err}
}
