package tree

import "todotree/internal/task"

// IndexOf resolves id against the current sequence, or returns -1.
func IndexOf(id int64, flat []task.FlatEntry) int {
	for i, e := range flat {
		if e.Task.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the id after current, wrapping from the last entry to the
// first. A stale current falls back to the first entry.
func Next(current int64, flat []task.FlatEntry) (int64, bool) {
	if len(flat) == 0 {
		return 0, false
	}
	i := IndexOf(current, flat)
	switch {
	case i < 0:
		return flat[0].Task.ID, true
	case i == len(flat)-1:
		return flat[0].Task.ID, true
	default:
		return flat[i+1].Task.ID, true
	}
}

// Previous returns the id before current, wrapping from the first entry to
// the last. A stale current falls back to the first entry.
func Previous(current int64, flat []task.FlatEntry) (int64, bool) {
	if len(flat) == 0 {
		return 0, false
	}
	i := IndexOf(current, flat)
	switch {
	case i < 0:
		return flat[0].Task.ID, true
	case i == 0:
		return flat[len(flat)-1].Task.ID, true
	default:
		return flat[i-1].Task.ID, true
	}
}

func First(flat []task.FlatEntry) (int64, bool) {
	if len(flat) == 0 {
		return 0, false
	}
	return flat[0].Task.ID, true
}

// Lookup returns the task snapshot and depth stored for id.
func Lookup(id int64, flat []task.FlatEntry) (task.Task, int, bool) {
	i := IndexOf(id, flat)
	if i < 0 {
		return task.Task{}, 0, false
	}
	return flat[i].Task, flat[i].Depth, true
}

func IsEmpty(flat []task.FlatEntry) bool {
	return len(flat) == 0
}

// Resolve settles a selection after a refresh: current if it still exists,
// otherwise the first entry, otherwise task.NoSelection.
func Resolve(current int64, flat []task.FlatEntry) int64 {
	if IndexOf(current, flat) >= 0 {
		return current
	}
	if id, ok := First(flat); ok {
		return id
	}
	return task.NoSelection
}
