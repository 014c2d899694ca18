package llm

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// FakeClient returns deterministic, minimal text per stage for offline runs
// and tests.
type FakeClient struct {
	name  string
	calls int64
}

func NewFakeClient(name string) *FakeClient {
	if strings.TrimSpace(name) == "" {
		name = "FakeLLM"
	}
	return &FakeClient{name: name}
}

func (f *FakeClient) Name() string { return f.name }
func (f *FakeClient) Close() error { return nil }

// Calls reports how many GenerateText invocations the client served.
func (f *FakeClient) Calls() int64 { return atomic.LoadInt64(&f.calls) }

func (f *FakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt64(&f.calls, 1)
	stage := StageFrom(ctx)
	switch {
	case stage == "plan":
		return fakePlanText, nil
	case strings.HasPrefix(stage, "task:"):
		return fmt.Sprintf("[%s] completed %s", f.name, strings.TrimPrefix(stage, "task:")), nil
	case stage == "assemble":
		return "assembled answer (" + f.name + ")", nil
	default:
		return "fake output (" + f.name + ")", nil
	}
}

const fakePlanText = `TASK task_1:
Title: Survey the problem
Description: Establish scope and constraints.
Dependencies: none
Complexity: LOW
Expertise: analysis

TASK task_2:
Title: Draft the approach
Description: Outline a solution using the survey.
Dependencies: task_1
Complexity: MEDIUM
Expertise: design

TASK task_3:
Title: Produce the result
Description: Execute the approach and write the answer.
Dependencies: task_2
Complexity: HIGH
Expertise: synthesis

EXECUTION SUMMARY:
Three sequential tasks.
`
