package tree

import "todotree/internal/task"

// Flatten walks the forest in pre-order and returns one entry per node.
// Each entry carries a cloned task, so callers can hold entries after the
// forest is discarded.
func Flatten(forest []*task.Node) []task.FlatEntry {
	type frame struct {
		node  *task.Node
		depth int
		path  []int64
	}

	out := make([]task.FlatEntry, 0, countNodes(forest))
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: forest[i], path: []int64{forest[i].Task.ID}})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		out = append(out, task.FlatEntry{
			Task:  f.node.Task.Clone(),
			Depth: f.depth,
			Path:  f.path,
			Index: len(out),
		})

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			c := f.node.Children[i]
			path := make([]int64, len(f.path)+1)
			copy(path, f.path)
			path[len(f.path)] = c.Task.ID
			stack = append(stack, frame{node: c, depth: f.depth + 1, path: path})
		}
	}
	return out
}

func countNodes(forest []*task.Node) int {
	n := 0
	stack := append([]*task.Node{}, forest...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, top.Children...)
	}
	return n
}
