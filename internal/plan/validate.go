package plan

// ValidateDependencies prunes dependency edges that cannot be satisfied:
// references to unknown task IDs, self-references, and duplicate entries
// (first occurrence kept). Tasks are never added or removed, and surviving
// dependencies keep their declaration order. The same slice is returned to
// allow call chaining.
func ValidateDependencies(tasks []*Task) []*Task {
	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.ID] = struct{}{}
	}
	for _, t := range tasks {
		if len(t.Dependencies) == 0 {
			continue
		}
		kept := make([]string, 0, len(t.Dependencies))
		seen := make(map[string]struct{}, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				continue
			}
			if _, ok := known[dep]; !ok {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			kept = append(kept, dep)
		}
		t.Dependencies = kept
	}
	return tasks
}
