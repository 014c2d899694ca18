package council

import (
	"fmt"
	"strings"

	"council/internal/plan"
)

// Prompt builders are deliberately thin; the structure they emit is what
// internal/plan parses back out.

func buildPlannerPrompt(question string, maxTasks int) string {
	if maxTasks < 3 {
		maxTasks = 3
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Break the following request into between 3 and %d tasks.\n\n", maxTasks)
	b.WriteString("For each task emit exactly this block:\n\n")
	b.WriteString("TASK task_<n>:\nTitle: <short title>\nDescription: <scope>\nDependencies: none | <comma-separated task ids>\nComplexity: LOW|MEDIUM|HIGH\nExpertise: <hint>\n\n")
	b.WriteString("Finish with an EXECUTION SUMMARY: section.\n\nREQUEST:\n")
	b.WriteString(question)
	return b.String()
}

func buildTaskPrompt(t *plan.Task, depOutputs map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are executing task %s: %s\n\n%s\n", t.ID, t.Title, t.Description)
	if t.Expertise != "" {
		fmt.Fprintf(&b, "\nApproach this as a specialist in: %s\n", t.Expertise)
	}
	if len(t.Dependencies) > 0 {
		b.WriteString("\nOutputs from prerequisite tasks:\n")
		for _, dep := range t.Dependencies {
			out, ok := depOutputs[dep]
			if !ok || out == "" {
				out = "[MISSING] no output recorded"
			}
			fmt.Fprintf(&b, "\n--- %s ---\n%s\n", dep, out)
		}
	}
	return b.String()
}

func buildAssemblePrompt(question string, tasks []*plan.Task, outputs map[string]string) string {
	var b strings.Builder
	b.WriteString("Combine the task outputs below into one final answer.\n\nORIGINAL REQUEST:\n")
	b.WriteString(question)
	b.WriteString("\n\nTASK OUTPUTS:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "\n--- %s (%s) ---\n%s\n", t.ID, t.Title, outputs[t.ID])
	}
	return b.String()
}

func buildPanelPrompt(mode Mode, question string, round int, prior []ModelOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deliberation mode: %s (%s). Round %d.\n\nQUESTION:\n%s\n", mode.Name, mode.Description, round, question)
	if len(prior) > 0 {
		b.WriteString("\nPrevious round responses:\n")
		for _, p := range prior {
			fmt.Fprintf(&b, "\n--- %s ---\n%s\n", p.Model, p.Output)
		}
	}
	return b.String()
}
