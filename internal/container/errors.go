package container

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrInvalidKey = errors.New("invalid entry name")
)

// Error reports a missing or unreadable container entry.
type Error struct {
	Op    string // "text" or "binary"
	Entry string // Entry name inside the container
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("container %s %q: %v", e.Op, e.Entry, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func textErr(name string, err error) error {
	return &Error{Op: "text", Entry: name, Err: err}
}

func binaryErr(name string, err error) error {
	return &Error{Op: "binary", Entry: name, Err: err}
}
