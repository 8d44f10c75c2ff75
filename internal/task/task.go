package task

import "time"

// TimeLayout is the creation_date format the store writes and reads.
const TimeLayout = "2006-01-02 15:04:05"

// NoSelection is the selection value used when the flattened view is empty.
const NoSelection int64 = -1

// RootParent passed as Update.ParentID moves a task to the root level.
const RootParent int64 = 0

type Task struct {
	ID          int64
	ParentID    *int64
	Name        string
	Completed   bool
	Description *string
	CreatedAt   time.Time
}

// IsRoot reports whether the task has no parent.
func (t Task) IsRoot() bool {
	return t.ParentID == nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return c
}

// DescriptionText returns the description or "" when absent.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Node is one task in an assembled forest. Children keep retrieval order.
type Node struct {
	Task     Task
	Children []*Node
}

// FlatEntry is a task positioned in a pre-order walk of the forest.
type FlatEntry struct {
	Task  Task
	Depth int
	Path  []int64
	Index int
}

// ParentInPath returns the id preceding the entry's own id in Path.
func (e FlatEntry) ParentInPath() (int64, bool) {
	if len(e.Path) < 2 {
		return 0, false
	}
	return e.Path[len(e.Path)-2], true
}

// Update carries the optional fields of an edit. Nil fields are left alone.
type Update struct {
	Name        *string
	Description *string
	ParentID    *int64
	Completed   *bool
}

func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.ParentID == nil && u.Completed == nil
}

func Ptr[T any](v T) *T {
	return &v
}
