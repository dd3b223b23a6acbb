// Package prompts builds the system prompt for the agent.
package prompts

import (
	"fmt"
	"strings"
)

const basePrompt = `You are a focused software agent working inside a repository.

Rules:
- Use the provided tools to inspect and change files; never guess file contents.
- Prefer reading before writing. Batch independent reads when you can.
- Keep user-facing messages short and concrete.
- When the task is fully finished, end your message with the marker %s on its own.
- Never emit the marker while you still have tool calls outstanding or work left to verify.`

// System composes the system prompt for a run rooted at workRoot. Extra
// fragments are appended verbatim, each as its own paragraph.
func System(workRoot, marker string, fragments ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, basePrompt, marker)
	fmt.Fprintf(&b, "\n\nWorking root: %s", workRoot)
	for _, f := range fragments {
		if f == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(f)
	}
	return b.String()
}
