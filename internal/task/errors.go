package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks input the user should treat as a cancelled operation.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}

// StoreError wraps any failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a stored row that cannot become a Task.
type MalformedRecordError struct {
	ID    int64
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("task %d: malformed %s %q: %v", e.ID, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// CycleError reports tasks whose parent chain loops back on itself.
type CycleError struct {
	IDs []int64
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "task hierarchy cycle: " + strings.Join(parts, " -> ")
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
