package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todotree/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "todo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustInsert(t *testing.T, s *Store, parent *int64, name string) int64 {
	t.Helper()
	id, err := s.Insert(parent, name, nil)
	if err != nil {
		t.Fatalf("insert %q: %v", name, err)
	}
	return id
}

func TestStore_InsertAndSelect(t *testing.T) {
	s := openTestStore(t)

	a := mustInsert(t, s, nil, "A")
	b, err := s.Insert(&a, "B", task.Ptr("details"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b <= a {
		t.Fatalf("expected monotonic ids, got %d then %d", a, b)
	}

	all, err := s.SelectAll()
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	got := all[1]
	if got.Name != "B" || got.ParentID == nil || *got.ParentID != a || got.DescriptionText() != "details" || got.Completed {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.CreatedAt.IsZero() || time.Since(got.CreatedAt) > 24*time.Hour {
		t.Fatalf("unexpected creation time %v", got.CreatedAt)
	}
	if all[0].ParentID != nil || all[0].Description != nil {
		t.Fatalf("root should have no parent or description: %+v", all[0])
	}

	kids, err := s.SelectByParent(a)
	if err != nil {
		t.Fatalf("select by parent: %v", err)
	}
	if len(kids) != 1 || kids[0].ID != b {
		t.Fatalf("unexpected children: %+v", kids)
	}
}

func TestStore_UpdateAppliesOnlyGivenFields(t *testing.T) {
	s := openTestStore(t)
	a := mustInsert(t, s, nil, "A")
	b, err := s.Insert(&a, "B", task.Ptr("keep me"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Update(b, task.Update{Name: task.Ptr("B2"), Completed: task.Ptr(true)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Get(b)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "B2" || !got.Completed || got.DescriptionText() != "keep me" || got.ParentID == nil {
		t.Fatalf("unexpected task after update: %+v", got)
	}

	if err := s.Update(b, task.Update{ParentID: task.Ptr(task.RootParent)}); err != nil {
		t.Fatalf("move to root: %v", err)
	}
	got, _ = s.Get(b)
	if got.ParentID != nil {
		t.Fatalf("expected root after move, parent=%v", *got.ParentID)
	}
}

func TestStore_UpdateMissingTask(t *testing.T) {
	s := openTestStore(t)
	err := s.Update(404, task.Update{Name: task.Ptr("x")})
	if !task.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Get(404); !task.IsNotFound(err) {
		t.Fatalf("expected not found from get, got %v", err)
	}
}

func TestStore_DeleteCascades(t *testing.T) {
	s := openTestStore(t)
	a := mustInsert(t, s, nil, "A")
	b := mustInsert(t, s, &a, "B")
	mustInsert(t, s, &b, "C")
	d := mustInsert(t, s, nil, "D")

	if err := s.Delete(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := s.SelectAll()
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(all) != 1 || all[0].ID != d {
		t.Fatalf("expected only D to remain, got %+v", all)
	}
}

func TestStore_ForeignKeyRejectsUnknownParent(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Insert(task.Ptr[int64](12345), "orphan", nil)
	var se *task.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected store error for missing parent, got %v", err)
	}
}

func TestStore_MalformedTimestampSurfaces(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.db.Exec(`INSERT INTO Task (name, creation_date) VALUES ('bad', 'yesterday');`); err != nil {
		t.Fatalf("raw insert: %v", err)
	}
	_, err := s.SelectAll()
	var mr *task.MalformedRecordError
	if !errors.As(err, &mr) {
		t.Fatalf("expected malformed record error, got %v", err)
	}
	if mr.Field != "creation_date" || mr.Value != "yesterday" {
		t.Fatalf("unexpected error detail: %+v", mr)
	}
}

func TestStore_Seed(t *testing.T) {
	s := openTestStore(t)
	if err := s.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	all, err := s.SelectAll()
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("expected 10 seeded tasks, got %d", len(all))
	}
	roots := 0
	for _, tk := range all {
		if tk.ParentID == nil {
			roots++
		}
	}
	if roots != 3 {
		t.Fatalf("expected 3 roots, got %d", roots)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("file:already.db?mode=ro"); got != "file:already.db?mode=ro" {
		t.Fatalf("file: DSN must pass through, got %q", got)
	}
	dsn := sqliteDSN(filepath.Join(t.TempDir(), "x.db"))
	for _, want := range []string{"mode=rwc", "foreign_keys%281%29", "busy_timeout%285000%29"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}
