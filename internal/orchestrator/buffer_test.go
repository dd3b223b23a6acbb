package orchestrator

import "testing"

func TestBufferDrainPreservesInsertionOrder(t *testing.T) {
	var b ToolCallBuffer
	b.Add(ToolCallRequest{ID: "1", Name: "read_file"})
	b.Add(ToolCallRequest{ID: "2", Name: "grep"})
	b.Add(ToolCallRequest{ID: "3", Name: "list_dir"})

	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	drained := b.Drain()
	if len(drained) != 3 {
		t.Fatalf("Drain() returned %d calls, want 3", len(drained))
	}
	for i, want := range []string{"1", "2", "3"} {
		if drained[i].ID != want {
			t.Errorf("drained[%d].ID = %s, want %s", i, drained[i].ID, want)
		}
	}

	if !b.IsEmpty() {
		t.Error("buffer should be empty after Drain")
	}
	if got := b.Drain(); len(got) != 0 {
		t.Errorf("second Drain() returned %d calls, want 0", len(got))
	}
}

func TestBufferReusableAfterDrain(t *testing.T) {
	var b ToolCallBuffer
	b.Add(ToolCallRequest{ID: "a"})
	b.Drain()

	b.Add(ToolCallRequest{ID: "b"})
	drained := b.Drain()
	if len(drained) != 1 || drained[0].ID != "b" {
		t.Fatalf("Drain() after reuse = %+v, want single call b", drained)
	}
}
