package orchestrator

// IterationContext carries the per-request mutable counters. It is created at
// request start, mutated only by the orchestration goroutine, and discarded
// when the request ends; it is never shared across requests.
type IterationContext struct {
	Iteration         int // model turns consumed so far
	ConsecutiveEmpty  int // empty/truncated responses in a row
	ConsecutiveNoTool int // turns in a row with neither tool call nor completion
	TotalToolCalls    int
	ToolCallsByName   map[string]int
	FilesTouched      []string // distinct, in first-touch order
	CommandsRun       []string
	EmptyRecoveries   int // corrective reprompts injected for empty output
	NudgesInjected    int // unproductive-loop nudges injected

	seenFiles map[string]struct{}
}

// NewIterationContext returns zeroed counters for a fresh request.
func NewIterationContext() *IterationContext {
	return &IterationContext{
		ToolCallsByName: make(map[string]int),
		seenFiles:       make(map[string]struct{}),
	}
}

// Argument keys recognized when attributing a call to a file path or command.
var (
	pathArgKeys    = []string{"path", "file_path", "filepath", "file", "directory"}
	commandArgKeys = []string{"command", "cmd"}
)

// RecordToolCall updates the counters for one issued call: total and per-name
// counts, touched paths, and executed commands.
func (c *IterationContext) RecordToolCall(call ToolCallRequest) {
	c.TotalToolCalls++
	c.ToolCallsByName[call.Name]++

	for _, key := range pathArgKeys {
		if v, ok := call.Args[key].(string); ok && v != "" {
			c.touchFile(v)
			break
		}
	}

	if call.Category == CategoryExecute {
		for _, key := range commandArgKeys {
			if v, ok := call.Args[key].(string); ok && v != "" {
				c.CommandsRun = append(c.CommandsRun, v)
				break
			}
		}
	}
}

func (c *IterationContext) touchFile(path string) {
	if _, ok := c.seenFiles[path]; ok {
		return
	}
	c.seenFiles[path] = struct{}{}
	c.FilesTouched = append(c.FilesTouched, path)
}
