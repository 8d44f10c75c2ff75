package tree

import (
	"testing"

	"todotree/internal/task"
)

func TestNavigator_Scenario(t *testing.T) {
	flat := mustFlatten(t, sampleTasks())

	steps := []struct {
		name string
		fn   func(int64, []task.FlatEntry) (int64, bool)
		from int64
		want int64
	}{
		{"next from A", Next, 1, 2},
		{"next from C wraps", Next, 3, 1},
		{"next from B goes to D", Next, 2, 4},
		{"previous from B", Previous, 2, 1},
		{"previous from A wraps", Previous, 1, 3},
		{"previous from C goes to D", Previous, 3, 4},
	}
	for _, s := range steps {
		got, ok := s.fn(s.from, flat)
		if !ok || got != s.want {
			t.Fatalf("%s: got (%d,%v) want %d", s.name, got, ok, s.want)
		}
	}

	tk, depth, ok := Lookup(4, flat)
	if !ok || tk.Name != "D" || depth != 2 {
		t.Fatalf("lookup(4): got (%q,%d,%v)", tk.Name, depth, ok)
	}
	if _, _, ok := Lookup(42, flat); ok {
		t.Fatalf("lookup of unknown id must fail")
	}
}

func TestNavigator_RoundTrip(t *testing.T) {
	flat := mustFlatten(t, sampleTasks())
	for _, e := range flat {
		id := e.Task.ID
		n, _ := Next(id, flat)
		if back, _ := Previous(n, flat); back != id {
			t.Fatalf("previous(next(%d)) = %d", id, back)
		}
		p, _ := Previous(id, flat)
		if fwd, _ := Next(p, flat); fwd != id {
			t.Fatalf("next(previous(%d)) = %d", id, fwd)
		}
	}
}

func TestNavigator_SingleEntryWrapsToItself(t *testing.T) {
	flat := mustFlatten(t, []task.Task{mk(7, 0, "only")})
	if got, _ := Next(7, flat); got != 7 {
		t.Fatalf("next: %d", got)
	}
	if got, _ := Previous(7, flat); got != 7 {
		t.Fatalf("previous: %d", got)
	}
}

func TestNavigator_StaleSelectionFallsBackToFirst(t *testing.T) {
	flat := mustFlatten(t, sampleTasks())
	for _, stale := range []int64{99, task.NoSelection} {
		if got, ok := Next(stale, flat); !ok || got != 1 {
			t.Fatalf("next(%d): got (%d,%v)", stale, got, ok)
		}
		if got, ok := Previous(stale, flat); !ok || got != 1 {
			t.Fatalf("previous(%d): got (%d,%v)", stale, got, ok)
		}
		if got := Resolve(stale, flat); got != 1 {
			t.Fatalf("resolve(%d): got %d", stale, got)
		}
	}
	if got := Resolve(4, flat); got != 4 {
		t.Fatalf("resolve keeps a live selection, got %d", got)
	}
}

func TestNavigator_SelectionFollowsIDAcrossInsert(t *testing.T) {
	before := mustFlatten(t, sampleTasks())
	if IndexOf(3, before) != 3 {
		t.Fatalf("unexpected index of C before insert")
	}
	after := mustFlatten(t, append(sampleTasks(), mk(5, 2, "E")))
	if got := Resolve(3, after); got != 3 {
		t.Fatalf("selection moved after insert: %d", got)
	}
	if IndexOf(3, after) != 4 {
		t.Fatalf("expected C to shift to index 4, got %d", IndexOf(3, after))
	}
	if got, _ := Next(3, after); got != 1 {
		t.Fatalf("next after insert must be resolved freshly, got %d", got)
	}
}
