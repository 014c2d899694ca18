package plan

import "strings"

// Complexity buckets a task's expected effort as declared by the planner model.
type Complexity string

const (
	ComplexityLow    Complexity = "LOW"
	ComplexityMedium Complexity = "MEDIUM"
	ComplexityHigh   Complexity = "HIGH"
)

// ParseComplexity normalizes a raw complexity value. The second return is
// false when the value is not one of the three recognized levels.
func ParseComplexity(raw string) (Complexity, bool) {
	switch Complexity(strings.ToUpper(strings.TrimSpace(raw))) {
	case ComplexityLow:
		return ComplexityLow, true
	case ComplexityMedium:
		return ComplexityMedium, true
	case ComplexityHigh:
		return ComplexityHigh, true
	default:
		return "", false
	}
}

// Task is one unit of work extracted from a planner response. IDs are
// lowercased on parse and unique within a plan.
type Task struct {
	ID           string
	Title        string
	Description  string
	Dependencies []string
	Complexity   Complexity
	Expertise    string

	// AssignedModel is set by AssignWorkers.
	AssignedModel string
	// WaveNumber is 1-based and set once the graph is known to be acyclic.
	WaveNumber int
}

// SortResult is the output of TopologicalSort. Waves and CriticalPath are
// only meaningful when HasCycle is false; on a cycle, Waves holds the waves
// formed before the sort stalled and must not be dispatched.
type SortResult struct {
	Waves        [][]string
	CriticalPath []string
	HasCycle     bool
}

// Assignment pairs a task with the model identity that will execute it.
type Assignment struct {
	Task  *Task
	Model string
}
