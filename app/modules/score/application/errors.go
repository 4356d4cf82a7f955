package scoreservice

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures of the database, as opposed to bad requests,
// which are returned as a failure result instead of an error.
var ErrStorage = errors.New("storage failure")

// StorageError wraps a repository error with the statement that failed.
// errors.Is matches both ErrStorage and the underlying error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
