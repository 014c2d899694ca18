package plan

import (
	"testing"

	"council/internal/tester"
)

func TestCleanModelOutputStripsFences(t *testing.T) {
	raw := "```text\nTASK task_1:\nTitle: A\nDescription: B\nDependencies: none\nComplexity: LOW\nExpertise: x\n```\n"
	cleaned := CleanModelOutput(raw)

	tasks := ParseTaskPlan(cleaned)
	tester.Len(t, tasks, 1)
	tester.Eq(t, "task_1", tasks[0].ID)
}

func TestCleanModelOutputRemovesCommentsAndBlankRuns(t *testing.T) {
	raw := "line one\n<!-- model aside -->\n\n\n\nline two"
	tester.Eq(t, "line one\n\nline two", CleanModelOutput(raw))
}
