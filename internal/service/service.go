// Package service applies task mutations and rebuilds the navigable view
// from the store.
package service

import (
	"fmt"
	"log"
	"strings"

	"todotree/internal/task"
	"todotree/internal/tree"
)

// Store is the slice of the task store the coordinator needs.
type Store interface {
	SelectAll() ([]task.Task, error)
	SelectByParent(parentID int64) ([]task.Task, error)
	Get(id int64) (task.Task, error)
	Insert(parentID *int64, name string, description *string) (int64, error)
	Update(id int64, u task.Update) error
	Delete(id int64) error
}

// View is one full rebuild of the read path.
type View struct {
	Forest []*task.Node
	Flat   []task.FlatEntry
}

type Coordinator struct {
	store Store
}

func New(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// Load reads every task and derives the forest and its flattened sequence.
// Callers must call it again after any mutation; nothing is patched in place.
func (c *Coordinator) Load() (View, error) {
	tasks, err := c.store.SelectAll()
	if err != nil {
		return View{}, err
	}
	forest, err := tree.Build(tasks)
	if err != nil {
		return View{}, err
	}
	return View{Forest: forest, Flat: tree.Flatten(forest)}, nil
}

func (c *Coordinator) Get(id int64) (task.Task, error) {
	return c.store.Get(id)
}

func (c *Coordinator) Children(id int64) ([]task.Task, error) {
	return c.store.SelectByParent(id)
}

// Create inserts a task under parentID, or at the root when parentID is nil.
// An empty name returns an error wrapping task.ErrValidation.
func (c *Coordinator) Create(name string, parentID *int64, description *string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &task.ValidationError{Field: "name", Reason: "is empty"}
	}
	if parentID != nil {
		if _, err := c.store.Get(*parentID); err != nil {
			return 0, err
		}
	}
	id, err := c.store.Insert(parentID, name, normalizeDescription(description))
	if err != nil {
		return 0, err
	}
	log.Printf("created task %d %q parent=%s", id, name, fmtParent(parentID))
	return id, nil
}

// Update applies the fields set in u and reports whether anything was
// written. An empty update never reaches the store.
func (c *Coordinator) Update(id int64, u task.Update) (bool, error) {
	if u.IsEmpty() {
		return false, nil
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return false, &task.ValidationError{Field: "name", Reason: "is empty"}
		}
		u.Name = &name
	}
	if u.ParentID != nil && *u.ParentID != task.RootParent {
		if err := c.checkReparent(id, *u.ParentID); err != nil {
			return false, err
		}
	}
	if err := c.store.Update(id, u); err != nil {
		return false, err
	}
	log.Printf("updated task %d", id)
	return true, nil
}

// checkReparent refuses a new parent that is the task itself or sits in
// the task's own subtree.
func (c *Coordinator) checkReparent(id, parentID int64) error {
	if parentID == id {
		return &task.CycleError{IDs: []int64{id, id}}
	}
	if _, err := c.store.Get(parentID); err != nil {
		return err
	}
	tasks, err := c.store.SelectAll()
	if err != nil {
		return err
	}
	parentOf := make(map[int64]*int64, len(tasks))
	for _, t := range tasks {
		parentOf[t.ID] = t.ParentID
	}
	chain := []int64{id, parentID}
	seen := map[int64]bool{parentID: true}
	cur := parentOf[parentID]
	for cur != nil {
		chain = append(chain, *cur)
		if *cur == id {
			return &task.CycleError{IDs: chain}
		}
		if seen[*cur] {
			return &task.CycleError{IDs: chain}
		}
		seen[*cur] = true
		cur = parentOf[*cur]
	}
	return nil
}

func (c *Coordinator) ToggleCompletion(id int64) error {
	t, err := c.store.Get(id)
	if err != nil {
		return err
	}
	done := !t.Completed
	if err := c.store.Update(id, task.Update{Completed: &done}); err != nil {
		return err
	}
	log.Printf("task %d completed=%t", id, done)
	return nil
}

// Delete removes id. The store removes its descendants.
func (c *Coordinator) Delete(id int64) error {
	if err := c.store.Delete(id); err != nil {
		return err
	}
	log.Printf("deleted task %d", id)
	return nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" {
		return nil
	}
	return &v
}

func fmtParent(p *int64) string {
	if p == nil {
		return "root"
	}
	return fmt.Sprintf("%d", *p)
}
