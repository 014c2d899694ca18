package plan

import (
	"bufio"
	"strings"
)

// ParseTaskPlan extracts task blocks from raw planner output. The expected
// shape of a block is:
//
//	TASK <id>:
//	Title: <title>
//	Description: <free text, possibly spanning lines>
//	Dependencies: none | <comma-separated ids>
//	Complexity: LOW|MEDIUM|HIGH
//	Expertise: <free text>
//
// Keywords and complexity values are matched case-insensitively; IDs are
// lowercased. A block missing Title, Description, or a recognized Complexity
// is dropped without error, since planner output is model-generated and
// unreliable. Anything after an EXECUTION SUMMARY: line is ignored.
func ParseTaskPlan(text string) []*Task {
	tasks := make([]*Task, 0, 8)
	seen := make(map[string]struct{})

	var cur *taskBlock
	flush := func() {
		if cur == nil {
			return
		}
		if t, ok := cur.finalize(); ok {
			if _, dup := seen[t.ID]; !dup {
				seen[t.ID] = struct{}{}
				tasks = append(tasks, t)
			}
		}
		cur = nil
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if isSummaryHeader(line) {
			break
		}
		if id, ok := parseTaskHeader(line); ok {
			flush()
			cur = &taskBlock{id: id}
			continue
		}
		if cur == nil {
			continue
		}
		if field, value, ok := parseFieldLabel(line); ok {
			cur.setField(field, value)
			continue
		}
		cur.continuation(line)
	}
	flush()
	return tasks
}

type taskBlock struct {
	id          string
	title       string
	desc        []string
	deps        string
	depsSeen    bool
	complexity  string
	compSeen    bool
	expertise   string
	titleSeen   bool
	descSeen    bool
	expSeen     bool
	activeField string
}

func (b *taskBlock) setField(field, value string) {
	b.activeField = field
	switch field {
	case "title":
		b.title = strings.TrimSpace(value)
		b.titleSeen = true
	case "description":
		b.desc = b.desc[:0]
		if v := strings.TrimSpace(value); v != "" {
			b.desc = append(b.desc, v)
		}
		b.descSeen = true
	case "dependencies":
		b.deps = strings.TrimSpace(value)
		b.depsSeen = true
	case "complexity":
		b.complexity = strings.TrimSpace(value)
		b.compSeen = true
	case "expertise":
		b.expertise = strings.TrimSpace(value)
		b.expSeen = true
	}
}

// continuation folds a non-label line into the active field. Only the
// description keeps multi-line bodies; other fields are single-line.
func (b *taskBlock) continuation(line string) {
	if b.activeField != "description" {
		return
	}
	b.desc = append(b.desc, strings.TrimRight(line, " \t"))
}

func (b *taskBlock) finalize() (*Task, bool) {
	if !b.titleSeen || !b.descSeen || !b.compSeen {
		return nil, false
	}
	comp, ok := ParseComplexity(b.complexity)
	if !ok {
		return nil, false
	}
	desc := strings.TrimSpace(strings.Join(b.desc, "\n"))
	if b.title == "" || desc == "" {
		return nil, false
	}
	return &Task{
		ID:           b.id,
		Title:        b.title,
		Description:  desc,
		Dependencies: parseDependencyList(b.deps),
		Complexity:   comp,
		Expertise:    b.expertise,
	}, true
}

// parseTaskHeader recognizes "TASK <id>:" lines, case-insensitive keyword,
// ID lowercased. IDs with internal whitespace are rejected.
func parseTaskHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 6 || !strings.EqualFold(trimmed[:4], "TASK") {
		return "", false
	}
	rest := trimmed[4:]
	if rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	idx := strings.IndexByte(rest, ':')
	if idx < 0 {
		return "", false
	}
	id := strings.ToLower(strings.TrimSpace(rest[:idx]))
	if id == "" || strings.ContainsAny(id, " \t") {
		return "", false
	}
	return id, true
}

func isSummaryHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if idx := strings.IndexByte(trimmed, ':'); idx >= 0 {
		trimmed = trimmed[:idx+1]
	}
	return strings.EqualFold(trimmed, "EXECUTION SUMMARY:")
}

// parseFieldLabel recognizes "<Label>: <value>" lines for the five known
// field labels, case-insensitive.
func parseFieldLabel(line string) (field, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexByte(trimmed, ':')
	if idx <= 0 {
		return "", "", false
	}
	label := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
	switch label {
	case "title", "description", "dependencies", "complexity", "expertise":
		return label, trimmed[idx+1:], true
	default:
		return "", "", false
	}
}

// parseDependencyList splits a raw Dependencies value into lowercased IDs.
// The literal "none" yields an empty list. Duplicates survive here and are
// pruned by ValidateDependencies.
func parseDependencyList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	deps := make([]string, 0, len(parts))
	for _, p := range parts {
		id := strings.ToLower(strings.TrimSpace(p))
		if id == "" {
			continue
		}
		deps = append(deps, id)
	}
	return deps
}
