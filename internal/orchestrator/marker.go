package orchestrator

import "strings"

// CompletionMarker is the agreed-upon token the model emits to signal that
// the task is finished. It is never shown to the user.
const CompletionMarker = "<<DONE>>"

// DetectCompletion reports whether text carries the completion marker and
// returns the text with every occurrence removed. The returned text is always
// whitespace-trimmed, so a blank turn yields empty visible text.
func DetectCompletion(text string) (bool, string) {
	if !strings.Contains(text, CompletionMarker) {
		return false, strings.TrimSpace(text)
	}
	cleaned := strings.ReplaceAll(text, CompletionMarker, "")
	return true, strings.TrimSpace(cleaned)
}

// Trailing fragments that suggest output stopped mid-thought.
var (
	truncationPunct = []string{",", ":", ";", "(", "{", "[", "-"}
	truncationWords = []string{"and", "or", "the", "to", "with", "of", "a", "an"}
)

// looksTruncated applies cheap heuristics for output that ended mid-thought.
// The backend's Truncated flag is authoritative; this only supplements it for
// backends that cannot report one.
func looksTruncated(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	// Unclosed code fence.
	if strings.Count(trimmed, "```")%2 == 1 {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, suffix := range truncationPunct {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, word := range truncationWords {
		if strings.HasSuffix(lower, " "+word) {
			return true
		}
	}
	return false
}
