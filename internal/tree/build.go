// Package tree turns flat task records into a forest, linearizes it for
// navigation, and moves a selection through the result.
package tree

import "todotree/internal/task"

// Build assembles tasks into a forest. Roots and siblings keep input order.
//
// A task whose parent id is not present in tasks is promoted to a root so
// its subtree stays visible. Records that loop back onto themselves through
// their parent chain are rejected with *task.CycleError.
func Build(tasks []task.Task) ([]*task.Node, error) {
	known := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	var roots []task.Task
	children := make(map[int64][]task.Task)
	for _, t := range tasks {
		if t.ParentID == nil || !known[*t.ParentID] {
			roots = append(roots, t)
			continue
		}
		children[*t.ParentID] = append(children[*t.ParentID], t)
	}

	visited := make(map[int64]bool, len(tasks))
	forest := make([]*task.Node, 0, len(roots))
	for _, r := range roots {
		if visited[r.ID] {
			return nil, &task.CycleError{IDs: []int64{r.ID, r.ID}}
		}
		visited[r.ID] = true
		root := &task.Node{Task: r}
		stack := []*task.Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, c := range children[n.Task.ID] {
				if visited[c.ID] {
					return nil, &task.CycleError{IDs: []int64{n.Task.ID, c.ID}}
				}
				visited[c.ID] = true
				cn := &task.Node{Task: c}
				n.Children = append(n.Children, cn)
				stack = append(stack, cn)
			}
		}
		forest = append(forest, root)
	}

	if len(visited) != len(known) {
		if ids := findLoop(tasks, visited); ids != nil {
			return nil, &task.CycleError{IDs: ids}
		}
	}
	return forest, nil
}

// findLoop follows the parent chain of the first unreached task until an id
// repeats and returns the loop, closed with its first id.
func findLoop(tasks []task.Task, visited map[int64]bool) []int64 {
	parent := make(map[int64]int64, len(tasks))
	for _, t := range tasks {
		if t.ParentID != nil {
			parent[t.ID] = *t.ParentID
		}
	}
	for _, t := range tasks {
		if visited[t.ID] {
			continue
		}
		pos := map[int64]int{}
		var chain []int64
		id := t.ID
		for {
			if i, seen := pos[id]; seen {
				loop := append([]int64{}, chain[i:]...)
				return append(loop, id)
			}
			pos[id] = len(chain)
			chain = append(chain, id)
			p, ok := parent[id]
			if !ok {
				break
			}
			id = p
		}
	}
	return nil
}
