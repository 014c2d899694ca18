package plan

import (
	"testing"

	"council/internal/tester"
)

func mkTask(id string, deps ...string) *Task {
	if deps == nil {
		deps = []string{}
	}
	return &Task{
		ID:           id,
		Title:        "t " + id,
		Description:  "d " + id,
		Dependencies: deps,
		Complexity:   ComplexityMedium,
	}
}

func TestValidateDependenciesPrunesUnknown(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1"),
		mkTask("task_2", "task_1", "task_99"),
	}
	ValidateDependencies(tasks)
	tester.Eq(t, tasks[1].Dependencies, []string{"task_1"})
}

func TestValidateDependenciesPrunesSelfReference(t *testing.T) {
	tasks := []*Task{mkTask("task_1", "task_1")}
	ValidateDependencies(tasks)
	tester.Len(t, tasks[0].Dependencies, 0)
}

func TestValidateDependenciesDeduplicates(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1"),
		mkTask("task_2", "task_1", "task_1"),
	}
	ValidateDependencies(tasks)
	tester.Eq(t, tasks[1].Dependencies, []string{"task_1"})
}

func TestValidateDependenciesPreservesOrder(t *testing.T) {
	tasks := []*Task{
		mkTask("a"), mkTask("b"), mkTask("c"),
		mkTask("d", "c", "nope", "a", "d", "b"),
	}
	ValidateDependencies(tasks)
	tester.Eq(t, tasks[3].Dependencies, []string{"c", "a", "b"})
}

func TestValidateDependenciesNeverRemovesTasks(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1", "ghost"),
		mkTask("task_2"),
	}
	out := ValidateDependencies(tasks)
	tester.Len(t, out, 2)
	tester.Eq(t, out[0], tasks[0], "same task pointers")
	known := map[string]struct{}{"task_1": {}, "task_2": {}}
	for _, task := range out {
		for _, dep := range task.Dependencies {
			if _, ok := known[dep]; !ok {
				t.Fatalf("surviving dependency %q is not a task ID", dep)
			}
			if dep == task.ID {
				t.Fatalf("surviving self-dependency on %q", dep)
			}
		}
	}
}

func TestValidateDependenciesEmptyInput(t *testing.T) {
	tester.Len(t, ValidateDependencies([]*Task{}), 0)
	tester.Len(t, ValidateDependencies(nil), 0)
}
