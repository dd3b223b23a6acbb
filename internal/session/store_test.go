package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"heron/internal/orchestrator"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "heron.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := &Record{
		Prompt:     "rename the package",
		FinalText:  "Renamed.",
		Completed:  true,
		Iterations: 3,
		ToolCalls:  2,
		Messages: []orchestrator.Message{
			{Kind: orchestrator.KindUser, Content: "rename the package"},
			{Kind: orchestrator.KindToolCall, Name: "read_file", CallID: "c1", Content: `{"path":"a.go"}`},
			{Kind: orchestrator.KindToolResult, Name: "read_file", CallID: "c1", Content: "package old"},
			{Kind: orchestrator.KindAssistant, Content: "Renamed."},
		},
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Save should assign an id")
	}

	loaded, err := s.Load(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Prompt != rec.Prompt || loaded.FinalText != rec.FinalText {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.Completed || loaded.IsFallback {
		t.Errorf("flags: completed=%v fallback=%v", loaded.Completed, loaded.IsFallback)
	}
	if len(loaded.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(loaded.Messages))
	}
	if loaded.Messages[1].Kind != orchestrator.KindToolCall || loaded.Messages[1].CallID != "c1" {
		t.Errorf("messages[1] = %+v", loaded.Messages[1])
	}
	if loaded.Messages[2].Content != "package old" {
		t.Errorf("messages[2].Content = %q", loaded.Messages[2].Content)
	}
}

func TestLoadUnknownID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rec := &Record{
			Prompt:    "task",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	metas, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("got %d records, want 3", len(metas))
	}
	for i := 1; i < len(metas); i++ {
		if metas[i].CreatedAt.After(metas[i-1].CreatedAt) {
			t.Errorf("records not sorted newest first: %v", metas)
		}
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d records with limit 2", len(limited))
	}
}
