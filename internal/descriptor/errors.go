package descriptor

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("malformed model descriptor")

// FormatError reports a malformed descriptor or domain file.
type FormatError struct {
	Entry   string // Container entry being parsed
	Reason  string // What is wrong
	Content string // Offending line or value, if any
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Content != "" {
		return fmt.Sprintf("%s: %s: %q", e.Entry, e.Reason, e.Content)
	}
	return fmt.Sprintf("%s: %s", e.Entry, e.Reason)
}

// Is reports ErrFormat as the sentinel of every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatErr(entry, reason, content string) error {
	return &FormatError{Entry: entry, Reason: reason, Content: content}
}
