package plan

// ComputeCriticalPath returns the longest dependency chain through the plan,
// from a dependency-free root to the deepest task, in execution order.
//
// Depth is 1 for a task with no dependencies, otherwise 1 + the maximum
// depth among its dependencies. Depths are computed wave by wave, so each
// task's dependencies are already resolved when it is visited. Ties (several
// dependencies or endpoints with equal depth) go to the first one in
// declaration order, keeping the reported path deterministic.
func ComputeCriticalPath(tasks []*Task, waves [][]string) []string {
	if len(tasks) == 0 || len(waves) == 0 {
		return []string{}
	}
	byID := indexTasks(tasks)

	depth := make(map[string]int, len(tasks))
	for _, wave := range waves {
		for _, id := range wave {
			t, ok := byID[id]
			if !ok {
				continue
			}
			d := 1
			for _, dep := range t.Dependencies {
				if dd, ok := depth[dep]; ok && dd+1 > d {
					d = dd + 1
				}
			}
			depth[id] = d
		}
	}

	// Endpoint: globally deepest task, earliest declared wins ties.
	endID := ""
	maxDepth := 0
	for _, t := range tasks {
		if d, ok := depth[t.ID]; ok && d > maxDepth {
			maxDepth = d
			endID = t.ID
		}
	}
	if endID == "" {
		return []string{}
	}

	// Walk back through the deepest dependency at each step.
	reversed := []string{endID}
	cur := byID[endID]
	for cur != nil && len(cur.Dependencies) > 0 {
		next := ""
		nextDepth := 0
		for _, dep := range cur.Dependencies {
			if d, ok := depth[dep]; ok && d > nextDepth {
				nextDepth = d
				next = dep
			}
		}
		if next == "" {
			break
		}
		reversed = append(reversed, next)
		cur = byID[next]
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
