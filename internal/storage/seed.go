package storage

import (
	"database/sql"

	"todotree/internal/task"
)

type seedTask struct {
	name        string
	description string
	completed   bool
	children    []seedTask
}

var demoTasks = []seedTask{
	{
		name:        "Learn Go",
		description: "Work through the basics of the language",
		children: []seedTask{
			{name: "Read the Go tour", description: "Finish every section of the tour"},
			{name: "Do the exercises", description: "Solve the practice problems", completed: true},
			{name: "Write a small program", description: "Build a first command line tool"},
		},
	},
	{
		name:        "Build the todo tree",
		description: "A terminal app for nested tasks",
		completed:   true,
		children: []seedTask{
			{
				name:        "Set up the module",
				description: "go.mod and package layout",
				completed:   true,
				children: []seedTask{
					{name: "Add dependencies", description: "sqlite driver, bubbletea, go-toml", completed: true},
				},
			},
			{name: "Implement CRUD", description: "Create, read, update and delete tasks"},
			{name: "Add migrations", description: "Create the schema on first open", completed: true},
		},
	},
	{
		name:        "Write documentation",
		description: "Explain how to install and use the app",
	},
}

// Seed inserts a small demo hierarchy in a single transaction.
func (s *Store) Seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return &task.StoreError{Op: "seed", Err: err}
	}
	if err := insertSeed(tx, nil, demoTasks); err != nil {
		tx.Rollback()
		return &task.StoreError{Op: "seed", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &task.StoreError{Op: "seed", Err: err}
	}
	return nil
}

func insertSeed(tx *sql.Tx, parent *int64, tasks []seedTask) error {
	for _, st := range tasks {
		res, err := tx.Exec(`INSERT INTO Task (parent_id, name, completed, description) VALUES (?, ?, ?, ?);`,
			nullInt(parent), st.name, boolToInt(st.completed), st.description)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := insertSeed(tx, &id, st.children); err != nil {
			return err
		}
	}
	return nil
}
