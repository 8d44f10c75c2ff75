package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"todotree/internal/task"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, &task.StoreError{Op: "open", Err: err}
	}
	// One connection: the pragmas below are per connection and the app
	// never has more than one statement in flight.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, &task.StoreError{Op: "migrate", Err: err}
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS Task (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id     INTEGER DEFAULT NULL,
	name          TEXT NOT NULL,
	completed     INTEGER NOT NULL DEFAULT 0,
	description   TEXT,
	creation_date TEXT DEFAULT CURRENT_TIMESTAMP,

	FOREIGN KEY (parent_id) REFERENCES Task(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_task_parent ON Task(parent_id);`
	_, err := s.db.Exec(ddl)
	return err
}

const selectColumns = `SELECT id, parent_id, name, completed, description, creation_date FROM Task`

// SelectAll returns every task in id order, which is the retrieval order
// the tree builder preserves for siblings.
func (s *Store) SelectAll() ([]task.Task, error) {
	return s.query("select all", selectColumns+` ORDER BY id;`)
}

func (s *Store) SelectByParent(parentID int64) ([]task.Task, error) {
	return s.query("select by parent", selectColumns+` WHERE parent_id = ? ORDER BY id;`, parentID)
}

func (s *Store) Get(id int64) (task.Task, error) {
	row := s.db.QueryRow(selectColumns+` WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	if err != nil {
		return task.Task{}, wrap("get", err)
	}
	return t, nil
}

func (s *Store) query(op, q string, args ...any) ([]task.Task, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, &task.StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &task.StoreError{Op: op, Err: err}
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (task.Task, error) {
	var t task.Task
	var parent sql.NullInt64
	var completed int
	var desc, created sql.NullString
	if err := sc.Scan(&t.ID, &parent, &t.Name, &completed, &desc, &created); err != nil {
		return task.Task{}, err
	}
	if parent.Valid {
		t.ParentID = task.Ptr(parent.Int64)
	}
	if desc.Valid {
		t.Description = task.Ptr(desc.String)
	}
	t.Completed = completed != 0
	if !created.Valid {
		return task.Task{}, &task.MalformedRecordError{ID: t.ID, Field: "creation_date", Err: errors.New("missing value")}
	}
	ts, err := time.Parse(task.TimeLayout, created.String)
	if err != nil {
		return task.Task{}, &task.MalformedRecordError{ID: t.ID, Field: "creation_date", Value: created.String, Err: err}
	}
	t.CreatedAt = ts
	return t, nil
}

// wrap leaves record-level errors intact and marks everything else as a
// store failure.
func wrap(op string, err error) error {
	var mr *task.MalformedRecordError
	if errors.As(err, &mr) {
		return err
	}
	return &task.StoreError{Op: op, Err: err}
}

func (s *Store) Insert(parentID *int64, name string, description *string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO Task (parent_id, name, description) VALUES (?, ?, ?);`,
		nullInt(parentID), name, nullString(description))
	if err != nil {
		return 0, &task.StoreError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &task.StoreError{Op: "insert", Err: err}
	}
	return id, nil
}

// Update writes only the fields set in u. A ParentID of task.RootParent
// clears the parent and an empty Description clears the description.
func (s *Store) Update(id int64, u task.Update) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		if *u.Description == "" {
			args = append(args, nil)
		} else {
			args = append(args, *u.Description)
		}
	}
	if u.ParentID != nil {
		sets = append(sets, "parent_id = ?")
		if *u.ParentID == task.RootParent {
			args = append(args, nil)
		} else {
			args = append(args, *u.ParentID)
		}
	}
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*u.Completed))
	}
	args = append(args, id)

	res, err := s.db.Exec(`UPDATE Task SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return &task.StoreError{Op: "update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &task.StoreError{Op: "update", Err: err}
	}
	if n == 0 {
		return &task.NotFoundError{ID: id}
	}
	return nil
}

// Delete removes the task; the foreign key cascades to every descendant.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM Task WHERE id = ?;`, id); err != nil {
		return &task.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	u.RawQuery = q.Encode()
	return u.String()
}
