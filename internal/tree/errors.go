package tree

import (
	"errors"
	"fmt"
)

// ErrCorrupt is matched by every CorruptError.
var ErrCorrupt = errors.New("corrupt compressed tree")

// CorruptError reports a violated traversal invariant. It fails the scoring
// call that hit it and leaves the model untouched.
type CorruptError struct {
	Offset int    // Byte offset inside the tree, -1 when not applicable
	Reason string
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s", ErrCorrupt, e.Reason)
	}
	return fmt.Sprintf("%v at byte %d: %s", ErrCorrupt, e.Offset, e.Reason)
}

// Is reports ErrCorrupt as the sentinel of every CorruptError.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// Corrupt builds a CorruptError without a byte offset.
func Corrupt(format string, args ...any) error {
	return &CorruptError{Offset: -1, Reason: fmt.Sprintf(format, args...)}
}
