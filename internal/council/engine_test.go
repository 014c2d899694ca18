package council

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"council/internal/llm"
)

type scriptClient struct {
	name string
	fn   func(ctx context.Context, prompt string) (string, error)
}

func (c *scriptClient) Name() string { return c.name }
func (c *scriptClient) Close() error { return nil }
func (c *scriptClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.fn(ctx, prompt)
}

type recordingPublisher struct {
	mu     sync.Mutex
	stages []string
}

func (p *recordingPublisher) Publish(ev Event) {
	p.mu.Lock()
	p.stages = append(p.stages, ev.Stage)
	p.mu.Unlock()
}

func TestRunDecomposeEndToEnd(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEngine(llm.NewFakeClient("fake"), []string{"m_a", "m_b"}, WithEvents(pub))

	res, err := e.RunDecompose(context.Background(), "run-1", "build a thing")
	require.NoError(t, err)
	require.Len(t, res.Tasks, 3)
	require.Equal(t, [][]string{{"task_1"}, {"task_2"}, {"task_3"}}, res.Waves)
	require.Equal(t, []string{"task_1", "task_2", "task_3"}, res.CriticalPath)
	require.Len(t, res.Assignments, 3)
	require.Equal(t, "m_a", res.Assignments[0].Model)
	require.Equal(t, "m_b", res.Assignments[1].Model)
	require.Equal(t, "m_a", res.Assignments[2].Model)
	require.Len(t, res.TaskOutputs, 3)
	require.NotEmpty(t, res.FinalAnswer)

	require.Contains(t, pub.stages, "plan_parsed")
	require.Contains(t, pub.stages, "wave_started")
	require.Contains(t, pub.stages, "completed")
}

func TestRunDecomposeCyclicPlanNeverDispatches(t *testing.T) {
	const cyclicPlan = `TASK task_1:
Title: A
Description: d
Dependencies: task_2
Complexity: LOW
Expertise: e

TASK task_2:
Title: B
Description: d
Dependencies: task_1
Complexity: LOW
Expertise: e
`
	taskCalls := 0
	client := &scriptClient{name: "cyclic", fn: func(ctx context.Context, prompt string) (string, error) {
		if strings.HasPrefix(llm.StageFrom(ctx), "task:") {
			taskCalls++
		}
		return cyclicPlan, nil
	}}
	e := NewEngine(client, []string{"m_a"})
	_, err := e.RunDecompose(context.Background(), "run-2", "q")
	require.ErrorIs(t, err, ErrCyclicPlan)
	require.Zero(t, taskCalls, "no tasks may be dispatched on a cyclic plan")
}

func TestRunDecomposeEmptyPlan(t *testing.T) {
	client := &scriptClient{name: "empty", fn: func(ctx context.Context, prompt string) (string, error) {
		return "the model rambled and produced no task blocks", nil
	}}
	e := NewEngine(client, []string{"m_a"})
	_, err := e.RunDecompose(context.Background(), "run-3", "q")
	require.ErrorIs(t, err, ErrEmptyPlan)
}

func TestRunDecomposeNoWorkers(t *testing.T) {
	e := NewEngine(llm.NewFakeClient(""), nil)
	_, err := e.RunDecompose(context.Background(), "run-4", "q")
	require.ErrorIs(t, err, ErrNoWorkers)
}

func TestRunDecomposeFailedTaskDegrades(t *testing.T) {
	client := &scriptClient{name: "partial", fn: func(ctx context.Context, prompt string) (string, error) {
		stage := llm.StageFrom(ctx)
		switch {
		case stage == "plan":
			return llmFakePlan(), nil
		case stage == "task:task_2":
			return "", errors.New("provider outage")
		case strings.HasPrefix(stage, "task:"):
			return "done " + stage, nil
		default:
			return "final", nil
		}
	}}
	e := NewEngine(client, []string{"m_a"})
	res, err := e.RunDecompose(context.Background(), "run-5", "q")
	require.NoError(t, err, "one failed task must not abort the run")
	require.True(t, strings.HasPrefix(res.TaskOutputs["task_2"], "[FAILED] "))
	require.True(t, strings.HasPrefix(res.TaskOutputs["task_3"], "done "), "dependents still run")
	require.Equal(t, "final", res.FinalAnswer)
}

// llmFakePlan mirrors the fake client's plan so scripted clients can reuse it.
func llmFakePlan() string {
	out, _ := llm.NewFakeClient("").GenerateText(llm.WithStage(context.Background(), "plan"), "")
	return out
}

func TestRunDecomposeWaveBarrier(t *testing.T) {
	// Diamond plan: task_2 and task_3 run concurrently in wave 2; neither may
	// start before task_1 settles, and task_4 not before both settle.
	const diamond = `TASK task_1:
Title: Root
Description: d
Dependencies: none
Complexity: LOW
Expertise: e

TASK task_2:
Title: Left
Description: d
Dependencies: task_1
Complexity: LOW
Expertise: e

TASK task_3:
Title: Right
Description: d
Dependencies: task_1
Complexity: LOW
Expertise: e

TASK task_4:
Title: Join
Description: d
Dependencies: task_2, task_3
Complexity: LOW
Expertise: e
`
	var mu sync.Mutex
	settled := map[string]bool{}
	client := &scriptClient{name: "barrier", fn: func(ctx context.Context, prompt string) (string, error) {
		stage := llm.StageFrom(ctx)
		if stage == "plan" {
			return diamond, nil
		}
		if stage == "assemble" {
			return "final", nil
		}
		id := strings.TrimPrefix(stage, "task:")
		mu.Lock()
		defer mu.Unlock()
		switch id {
		case "task_2", "task_3":
			if !settled["task_1"] {
				return "", errors.New("wave barrier violated: " + id + " before task_1")
			}
		case "task_4":
			if !settled["task_2"] || !settled["task_3"] {
				return "", errors.New("wave barrier violated: task_4 before wave 2")
			}
		}
		settled[id] = true
		return "ok " + id, nil
	}}
	e := NewEngine(client, []string{"m_a", "m_b"})
	res, err := e.RunDecompose(context.Background(), "run-6", "q")
	require.NoError(t, err)
	for id, out := range res.TaskOutputs {
		require.False(t, strings.HasPrefix(out, "[FAILED]"), "task %s: %s", id, out)
	}
}
