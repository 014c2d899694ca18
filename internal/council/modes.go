package council

import "strings"

// Mode describes one deliberation mode. Decompose has its own engine; the
// remaining modes run through the generic panel fan-out.
type Mode struct {
	Name        string
	MinModels   int
	Rounds      int
	Description string
}

var modes = []Mode{
	{Name: "council", MinModels: 2, Rounds: 2, Description: "models answer, then revise after reading each other"},
	{Name: "vote", MinModels: 3, Rounds: 1, Description: "independent answers collected for a majority decision"},
	{Name: "debate", MinModels: 2, Rounds: 3, Description: "alternating argument rounds between models"},
	{Name: "jury", MinModels: 3, Rounds: 2, Description: "one model argues, the rest deliberate on the verdict"},
	{Name: "delphi", MinModels: 3, Rounds: 3, Description: "anonymous iterative estimates until convergence"},
	{Name: "chain", MinModels: 2, Rounds: 1, Description: "each model extends the previous model's output"},
	{Name: "decompose", MinModels: 1, Rounds: 1, Description: "plan tasks, schedule dependency waves, dispatch in parallel"},
	{Name: "brainstorm", MinModels: 2, Rounds: 1, Description: "divergent idea generation across models"},
	{Name: "fact-check", MinModels: 2, Rounds: 2, Description: "one model answers, others verify claims"},
	{Name: "red-team", MinModels: 2, Rounds: 2, Description: "adversarial probing of a candidate answer"},
	{Name: "peer-review", MinModels: 2, Rounds: 2, Description: "models review and annotate each other's drafts"},
	{Name: "specialist-panel", MinModels: 2, Rounds: 1, Description: "each model answers from an assigned specialty"},
	{Name: "tournament", MinModels: 4, Rounds: 2, Description: "pairwise elimination between candidate answers"},
	{Name: "confidence-weighted", MinModels: 2, Rounds: 1, Description: "answers collected with self-reported confidence"},
	{Name: "blueprint", MinModels: 1, Rounds: 1, Description: "single structured long-form answer"},
}

// Modes returns the registered deliberation modes in registry order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// LookupMode finds a mode by name, case-insensitive.
func LookupMode(name string) (Mode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}
