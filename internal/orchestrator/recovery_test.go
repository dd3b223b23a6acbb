package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectiveNoteNamesTheProblem(t *testing.T) {
	r := Recovery{}

	empty := r.CorrectiveNote("no_content", nil)
	assert.Equal(t, KindSystemNote, empty.Kind)
	assert.Contains(t, empty.Content, "empty")

	trunc := r.CorrectiveNote("truncated", nil)
	assert.Equal(t, KindSystemNote, trunc.Kind)
	assert.Contains(t, trunc.Content, "cut off")
}

func TestCorrectiveNoteReferencesPriorWork(t *testing.T) {
	iter := NewIterationContext()
	iter.RecordToolCall(ToolCallRequest{
		Name:     "read_file",
		Category: CategoryReadOnly,
		Args:     map[string]any{"path": "main.go"},
	})

	note := Recovery{}.CorrectiveNote("no_content", iter)
	assert.Contains(t, note.Content, "1 tool call(s)")
	assert.Contains(t, note.Content, "main.go")
}

func TestNudgeNoteAsksForProgress(t *testing.T) {
	note := Recovery{}.NudgeNote()
	assert.Equal(t, KindSystemNote, note.Kind)
	assert.Contains(t, note.Content, "use a tool")
}

func TestSynthesizeWithNoToolActivity(t *testing.T) {
	iter := NewIterationContext()
	iter.Iteration = 15

	out := Recovery{Verbosity: VerbosityNormal}.Synthesize(iter)
	assert.Contains(t, out, "15 iterations")
	assert.Contains(t, out, "No tools were invoked")
}

func TestSynthesizeSummarizesProgress(t *testing.T) {
	iter := NewIterationContext()
	iter.Iteration = 15
	for i := 0; i < 4; i++ {
		iter.RecordToolCall(ToolCallRequest{
			Name:     "read_file",
			Category: CategoryReadOnly,
			Args:     map[string]any{"path": "file" + string(rune('a'+i)) + ".go"},
		})
	}
	iter.RecordToolCall(ToolCallRequest{
		Name:     "run_command",
		Category: CategoryExecute,
		Args:     map[string]any{"command": "go test ./..."},
	})

	out := Recovery{Verbosity: VerbosityNormal}.Synthesize(iter)
	assert.Contains(t, out, "5 tool call(s)")
	assert.Contains(t, out, "4 file(s) touched")
	assert.Contains(t, out, "1 command(s) run")
	// Normal verbosity reports counts only, no breakdowns or lists.
	assert.NotContains(t, out, "read_file: 4")
	assert.NotContains(t, out, "filea.go")
	assert.NotContains(t, out, "go test ./...")
}

func TestSynthesizeDetailedListsPerToolCounts(t *testing.T) {
	iter := NewIterationContext()
	iter.Iteration = 10
	iter.RecordToolCall(ToolCallRequest{Name: "grep", Category: CategoryReadOnly})
	iter.RecordToolCall(ToolCallRequest{Name: "grep", Category: CategoryReadOnly})
	iter.RecordToolCall(ToolCallRequest{
		Name:     "write_file",
		Category: CategoryWrite,
		Args:     map[string]any{"path": "out.txt"},
	})
	iter.RecordToolCall(ToolCallRequest{
		Name:     "run_command",
		Category: CategoryExecute,
		Args:     map[string]any{"command": "go vet ./..."},
	})

	out := Recovery{Verbosity: VerbosityDetailed}.Synthesize(iter)
	assert.Contains(t, out, "grep: 2")
	assert.Contains(t, out, "write_file: 1")
	assert.Contains(t, out, "out.txt")
	assert.Contains(t, out, "go vet ./...")
}

func TestSynthesizeCapsFileAndCommandLists(t *testing.T) {
	iter := NewIterationContext()
	iter.Iteration = 20
	longPath := "src/" + strings.Repeat("deeply/nested/", 6) + "leaf.go"
	iter.RecordToolCall(ToolCallRequest{
		Name:     "read_file",
		Category: CategoryReadOnly,
		Args:     map[string]any{"path": longPath},
	})
	for i := 0; i < 8; i++ {
		iter.RecordToolCall(ToolCallRequest{
			Name:     "read_file",
			Category: CategoryReadOnly,
			Args:     map[string]any{"path": "src/pkg" + string(rune('a'+i)) + "/main.go"},
		})
	}
	for i := 0; i < 5; i++ {
		iter.RecordToolCall(ToolCallRequest{
			Name:     "run_command",
			Category: CategoryExecute,
			Args:     map[string]any{"command": "make step" + string(rune('0'+i))},
		})
	}
	longCmd := strings.Repeat("x", 100)
	iter.RecordToolCall(ToolCallRequest{
		Name:     "run_command",
		Category: CategoryExecute,
		Args:     map[string]any{"command": longCmd},
	})
	out := Recovery{Verbosity: VerbosityDetailed}.Synthesize(iter)
	assert.Contains(t, out, "(and 4 more)")
	// Only the most recent commands appear.
	assert.NotContains(t, out, "make step0")
	assert.Contains(t, out, strings.Repeat("x", fallbackEntryLen)+"...")
	assert.NotContains(t, out, longCmd)
	// File paths get the same length cap as commands.
	assert.NotContains(t, out, longPath)
	assert.Contains(t, out, longPath[:fallbackEntryLen]+"...")
}
