package plan

import (
	"testing"

	"council/internal/tester"
)

func TestComputeCriticalPathSingleTask(t *testing.T) {
	tasks := []*Task{mkTask("task_1")}
	path := ComputeCriticalPath(tasks, [][]string{{"task_1"}})
	tester.Eq(t, path, []string{"task_1"})
}

func TestComputeCriticalPathEmpty(t *testing.T) {
	tester.Len(t, ComputeCriticalPath(nil, nil), 0)
	tester.Len(t, ComputeCriticalPath([]*Task{}, [][]string{}), 0)
}

func TestComputeCriticalPathFollowsLongestChain(t *testing.T) {
	// a -> b -> d and c -> d; the a-b branch is longer.
	tasks := []*Task{
		mkTask("a"),
		mkTask("b", "a"),
		mkTask("c"),
		mkTask("d", "b", "c"),
	}
	res := TopologicalSort(tasks)
	tester.False(t, res.HasCycle)
	tester.Eq(t, res.CriticalPath, []string{"a", "b", "d"})
}

func TestComputeCriticalPathTieBreakFirstDeclared(t *testing.T) {
	// Two equal-depth branches into d; the first-listed dependency wins.
	tasks := []*Task{
		mkTask("a"),
		mkTask("b"),
		mkTask("x", "a"),
		mkTask("y", "b"),
		mkTask("d", "y", "x"),
	}
	res := TopologicalSort(tasks)
	tester.Eq(t, res.CriticalPath, []string{"b", "y", "d"})
}

func TestComputeCriticalPathEndpoints(t *testing.T) {
	tasks := []*Task{
		mkTask("root_1"),
		mkTask("root_2"),
		mkTask("mid", "root_1"),
		mkTask("deep", "mid"),
		mkTask("side", "root_2"),
	}
	res := TopologicalSort(tasks)
	path := res.CriticalPath
	tester.True(t, len(path) > 0)

	byID := indexTasks(tasks)
	tester.Len(t, byID[path[0]].Dependencies, 0, "path starts at a dependency-free task")
	tester.Eq(t, path[len(path)-1], "deep", "path ends at the deepest task")
}
