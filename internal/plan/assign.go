package plan

// AssignWorkers distributes tasks across the worker pool round-robin over
// the wave-flattened order: the k-th task overall gets workers[k % len].
// The counter runs across wave boundaries, so the first task of wave 2
// continues after the last task of wave 1. Each assigned task's
// AssignedModel and WaveNumber are set as side effects.
//
// An empty worker pool yields an empty assignment list and leaves tasks
// untouched; callers treat that as nothing to dispatch.
func AssignWorkers(tasks []*Task, workers []string, waves [][]string) []Assignment {
	if len(workers) == 0 {
		return []Assignment{}
	}
	byID := indexTasks(tasks)
	out := make([]Assignment, 0, len(tasks))
	k := 0
	for wi, wave := range waves {
		for _, id := range wave {
			t, ok := byID[id]
			if !ok {
				continue
			}
			model := workers[k%len(workers)]
			t.AssignedModel = model
			t.WaveNumber = wi + 1
			out = append(out, Assignment{Task: t, Model: model})
			k++
		}
	}
	return out
}
