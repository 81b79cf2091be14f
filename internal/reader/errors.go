package reader

import (
	"context"
	"errors"
	"fmt"

	"github.com/mojo-runtime/mojo/internal/container"
	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/tree"
)

// ErrUnsupported is matched by every UnsupportedError.
var ErrUnsupported = errors.New("unsupported model")

// UnsupportedError reports a recognized container whose algorithm or format
// version has no registered reader.
type UnsupportedError struct {
	Algorithm string
	Version   string
	Major     int
	Minor     int
	Known     bool // Algorithm is registered for some other version
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	if !e.Known {
		return fmt.Sprintf("unsupported algorithm %q", e.Algorithm)
	}
	return fmt.Sprintf("unsupported version %s of %q", VersionString(e.Major, e.Minor), e.Algorithm)
}

// Is reports ErrUnsupported as the sentinel of every UnsupportedError.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Error kinds reported by ErrorKind.
const (
	KindContainer   = "container"
	KindFormat      = "format"
	KindUnsupported = "unsupported"
	KindCorrupt     = "corrupt"
	KindCanceled    = "canceled"
	KindOther       = "other"
)

// ErrorKind classifies a load or scoring error.
func ErrorKind(err error) string {
	var cerr *container.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, descriptor.ErrFormat):
		return KindFormat
	case errors.Is(err, tree.ErrCorrupt):
		return KindCorrupt
	case errors.As(err, &cerr):
		return KindContainer
	}
	return KindOther
}

func missing(key string) error {
	return &descriptor.FormatError{Entry: descriptor.EntryName, Reason: "missing " + key}
}
