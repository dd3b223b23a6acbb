package orchestrator

import (
	"fmt"
	"sort"
	"strings"
)

// Verbosity selects how much detail the fallback synthesizer includes.
type Verbosity string

const (
	VerbosityNormal   Verbosity = "normal"
	VerbosityDetailed Verbosity = "detailed"
)

// unproductiveThreshold is how many consecutive turns without a tool call or
// completion signal the loop tolerates before nudging the model.
const unproductiveThreshold = 3

const (
	fallbackMaxFiles    = 5
	fallbackMaxCommands = 3
	fallbackEntryLen    = 60
)

// clipEntry bounds one list entry in a fallback summary.
func clipEntry(s string) string {
	if len(s) > fallbackEntryLen {
		return s[:fallbackEntryLen] + "..."
	}
	return s
}

// Recovery decides what to inject into the conversation when the model
// misbehaves, and synthesizes a fallback answer when the iteration budget
// runs out. It holds no state; everything it needs lives in the counters.
type Recovery struct {
	Verbosity Verbosity
}

// CorrectiveNote is injected after an empty or truncated model turn. The note
// names the problem so the model can course-correct instead of repeating it,
// and reminds the model of work already done so it builds on it.
func (Recovery) CorrectiveNote(reason string, iter *IterationContext) Message {
	var b strings.Builder
	switch reason {
	case "truncated":
		b.WriteString("Your previous response was cut off before it finished. " +
			"Please resend it, shorter if needed, so it completes.")
	default:
		b.WriteString("Your previous response was empty. " +
			"Respond with either a tool call or a message for the user.")
	}
	if iter != nil && iter.TotalToolCalls > 0 {
		fmt.Fprintf(&b, " You have already made %d tool call(s)", iter.TotalToolCalls)
		if n := len(iter.FilesTouched); n > 0 {
			recent := iter.FilesTouched
			if len(recent) > fallbackMaxFiles {
				recent = recent[len(recent)-fallbackMaxFiles:]
			}
			fmt.Fprintf(&b, " touching %s", strings.Join(recent, ", "))
		}
		b.WriteString("; continue from that work rather than starting over.")
	}
	return Message{Kind: KindSystemNote, Content: b.String()}
}

// NudgeNote is injected after several consecutive turns that neither called a
// tool nor signalled completion.
func (Recovery) NudgeNote() Message {
	return Message{
		Kind: KindSystemNote,
		Content: "You have sent several messages without making progress. " +
			"Either use a tool to continue the task or state that you are finished.",
	}
}

// Synthesize builds a best-effort user answer from the request counters after
// the iteration budget is exhausted. It reports what was done, not what the
// model claimed, so the user gets an honest account of partial progress.
// Normal verbosity reports counts only; detailed adds the per-tool breakdown
// and bounded lists of touched files and recent commands.
func (r Recovery) Synthesize(iter *IterationContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The task could not be completed within %d iterations.\n\n", iter.Iteration)

	if iter.TotalToolCalls == 0 {
		b.WriteString("No tools were invoked. The request may need to be rephrased or broken into smaller steps.")
		return b.String()
	}

	fmt.Fprintf(&b, "Progress so far: %d tool call(s) across %d tool(s)", iter.TotalToolCalls, len(iter.ToolCallsByName))
	if n := len(iter.FilesTouched); n > 0 {
		fmt.Fprintf(&b, ", %d file(s) touched", n)
	}
	if n := len(iter.CommandsRun); n > 0 {
		fmt.Fprintf(&b, ", %d command(s) run", n)
	}
	b.WriteString(".\n")

	if r.Verbosity == VerbosityDetailed {
		names := make([]string, 0, len(iter.ToolCallsByName))
		for name := range iter.ToolCallsByName {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  - %s: %d\n", name, iter.ToolCallsByName[name])
		}

		if len(iter.FilesTouched) > 0 {
			files := iter.FilesTouched
			extra := 0
			if len(files) > fallbackMaxFiles {
				extra = len(files) - fallbackMaxFiles
				files = files[:fallbackMaxFiles]
			}
			clipped := make([]string, len(files))
			for i, f := range files {
				clipped[i] = clipEntry(f)
			}
			fmt.Fprintf(&b, "\nFiles touched: %s", strings.Join(clipped, ", "))
			if extra > 0 {
				fmt.Fprintf(&b, " (and %d more)", extra)
			}
			b.WriteString("\n")
		}

		if len(iter.CommandsRun) > 0 {
			cmds := iter.CommandsRun
			if len(cmds) > fallbackMaxCommands {
				cmds = cmds[len(cmds)-fallbackMaxCommands:]
			}
			b.WriteString("\nRecent commands:\n")
			for _, cmd := range cmds {
				fmt.Fprintf(&b, "  $ %s\n", clipEntry(cmd))
			}
		}
	}

	b.WriteString("\nYou can continue from here with a follow-up request, or raise the iteration limit.")
	return b.String()
}
