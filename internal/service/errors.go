package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation names a supply that is not in the inventory.
var ErrNotFound = errors.New("supply not found")

// Replica names used in WriteThroughError and metrics.
const (
	ReplicaDatabase = "database"
	ReplicaFile     = "file"
)

// WriteThroughError reports a mutation that could not be written to one of the
// replicas. When it is returned the in-memory inventory is unchanged.
type WriteThroughError struct {
	Op      string
	Name    string
	Replica string
	Err     error
}

func (e *WriteThroughError) Error() string {
	return fmt.Sprintf("%s %q: failed to write %s: %v", e.Op, e.Name, e.Replica, e.Err)
}

func (e *WriteThroughError) Unwrap() error {
	return e.Err
}
