package plan

import (
	"regexp"
	"strings"
)

var (
	// reFence matches markdown code fence lines: ``` or ```text
	reFence = regexp.MustCompile(`(?m)^\x60{3}[a-zA-Z]*\s*$`)
	// reComment matches HTML comments: <!-- ... -->
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	// reExcessiveNewlines matches 3 or more newlines to compress them
	reExcessiveNewlines = regexp.MustCompile(`\n{3,}`)
)

// CleanModelOutput strips markup that models tend to wrap plans in, such as
// code fences and HTML comments, so the task parser sees bare plan lines.
func CleanModelOutput(text string) string {
	text = reFence.ReplaceAllString(text, "")
	text = reComment.ReplaceAllString(text, "")
	text = reExcessiveNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
