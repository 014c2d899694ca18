package plan

// TopologicalSort orders tasks into dependency-respecting parallel waves
// using Kahn-style level-order traversal. Wave 1 holds every task with no
// unmet dependencies, in the task list's original relative order; each later
// wave holds the tasks whose last dependency completed in the wave before.
// If tasks remain unschedulable after no more waves can form, the graph has
// a cycle and HasCycle is set; Waves then holds only the partial prefix and
// must not be used for dispatch.
//
// As a side effect, every scheduled task's WaveNumber is set to its 1-based
// wave index. Dependencies are assumed to be validated.
func TopologicalSort(tasks []*Task) SortResult {
	if len(tasks) == 0 {
		return SortResult{Waves: [][]string{}, CriticalPath: []string{}}
	}

	indeg := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		indeg[t.ID] = len(t.Dependencies)
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	byID := indexTasks(tasks)
	scheduled := make(map[string]struct{}, len(tasks))
	waves := make([][]string, 0, 4)

	for wave := 1; len(scheduled) < len(tasks); wave++ {
		ready := make([]string, 0, len(tasks)-len(scheduled))
		for _, t := range tasks {
			if _, done := scheduled[t.ID]; done {
				continue
			}
			if indeg[t.ID] == 0 {
				ready = append(ready, t.ID)
			}
		}
		if len(ready) == 0 {
			// remaining tasks mutually depend on each other
			break
		}
		for _, id := range ready {
			scheduled[id] = struct{}{}
			byID[id].WaveNumber = wave
			for _, succ := range dependents[id] {
				indeg[succ]--
			}
		}
		waves = append(waves, ready)
	}

	res := SortResult{
		Waves:        waves,
		CriticalPath: []string{},
		HasCycle:     len(scheduled) < len(tasks),
	}
	if !res.HasCycle {
		res.CriticalPath = ComputeCriticalPath(tasks, waves)
	}
	return res
}

func indexTasks(tasks []*Task) map[string]*Task {
	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return byID
}
