package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("tool output is not JSON: %v\n%s", err, out)
	}
	return m
}

func TestReadFileTool(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hi there"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := newReadFileTool(root)
	out, err := tool.Fn(context.Background(), map[string]any{"path": "hello.txt"})
	if err != nil {
		t.Fatalf("read_file failed: %v", err)
	}
	m := decode(t, out)
	if m["content"] != "hi there" {
		t.Errorf("content = %v", m["content"])
	}
	if m["truncated"] != false {
		t.Errorf("truncated = %v", m["truncated"])
	}
}

func TestReadFileRejectsEscape(t *testing.T) {
	tool := newReadFileTool(t.TempDir())
	_, err := tool.Fn(context.Background(), map[string]any{"path": "../../etc/passwd"})
	if err == nil || !strings.Contains(err.Error(), "outside the working root") {
		t.Fatalf("err = %v, want path escape rejection", err)
	}
}

func TestWriteThenListTool(t *testing.T) {
	root := t.TempDir()
	write := newWriteFileTool(root)
	if _, err := write.Fn(context.Background(), map[string]any{
		"path":    "sub/dir/out.txt",
		"content": "data",
	}); err != nil {
		t.Fatalf("write_file failed: %v", err)
	}

	list := newListDirTool(root)
	out, err := list.Fn(context.Background(), map[string]any{"path": "sub/dir"})
	if err != nil {
		t.Fatalf("list_dir failed: %v", err)
	}
	m := decode(t, out)
	entries, _ := m["entries"].([]any)
	if len(entries) != 1 || entries[0] != "out.txt" {
		t.Errorf("entries = %v", entries)
	}
}

func TestListDirMarksDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := newListDirTool(root)
	out, err := tool.Fn(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("list_dir failed: %v", err)
	}
	m := decode(t, out)
	entries, _ := m["entries"].([]any)
	if len(entries) != 2 || entries[0] != "go.mod" || entries[1] != "pkg/" {
		t.Errorf("entries = %v", entries)
	}
}

func TestRunCommandReportsExitCode(t *testing.T) {
	tool := newRunCommandTool(t.TempDir())

	out, err := tool.Fn(context.Background(), map[string]any{"command": "echo ok; exit 3"})
	if err != nil {
		t.Fatalf("run_command failed: %v", err)
	}
	m := decode(t, out)
	if m["exit_code"] != float64(3) {
		t.Errorf("exit_code = %v, want 3", m["exit_code"])
	}
	if !strings.Contains(m["stdout"].(string), "ok") {
		t.Errorf("stdout = %v", m["stdout"])
	}
}

func TestDefaultRegistryCategories(t *testing.T) {
	reg := NewRegistry(t.TempDir(), DefaultToolSet())

	wantCategories := map[string]string{
		"read_file":   "read_only",
		"list_dir":    "read_only",
		"grep":        "read_only",
		"write_file":  "write",
		"run_command": "execute",
	}
	for name, want := range wantCategories {
		tool, ok := reg[name]
		if !ok {
			t.Errorf("tool %s missing from registry", name)
			continue
		}
		if string(tool.Category) != want {
			t.Errorf("%s category = %s, want %s", name, tool.Category, want)
		}
	}
}
