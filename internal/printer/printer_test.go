package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"todotree/internal/task"
)

func init() {
	color.NoColor = true
}

func TestPrint_IndentsByDepth(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	flat := []task.FlatEntry{
		{Task: task.Task{ID: 1, Name: "A", CreatedAt: created}, Depth: 0, Path: []int64{1}, Index: 0},
		{Task: task.Task{ID: 2, Name: "B", Completed: true, CreatedAt: created}, Depth: 1, Path: []int64{1, 2}, Index: 1},
	}
	var buf bytes.Buffer
	New(&buf).Print(flat)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "○ A") || !strings.Contains(lines[0], "2025-03-04 05:06") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "  ✓ B") {
		t.Fatalf("expected indented completed child, got %q", lines[1])
	}
}

func TestPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Print(nil)
	if !strings.Contains(buf.String(), "No tasks") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestDetail(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	parent := task.Task{ID: 1, Name: "A", Description: task.Ptr("notes"), CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	p.Detail(parent, []task.Task{{ID: 2, Name: "B"}, {ID: 3, Name: "C", Completed: true}})
	out := buf.String()
	for _, want := range []string{"A", "In Progress", "notes", "1. ○ B", "2. ✓ C", "2025-01-01 00:00:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail output missing %q:\n%s", want, out)
		}
	}
}
