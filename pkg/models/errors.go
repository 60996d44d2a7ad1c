package models

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
)

// ErrorKind classifies a per-target failure.
type ErrorKind int

const (
	// KindIO is any read failure not covered by a more specific kind
	KindIO ErrorKind = iota
	// KindNotFound means the path does not exist
	KindNotFound
	// KindPermission means the path exists but cannot be read
	KindPermission
	// KindIsDirectory means a directory was opened where a file was expected
	KindIsDirectory
	// KindCanceled means the run was interrupted before the target finished
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission_denied"
	case KindIsDirectory:
		return "is_directory"
	case KindCanceled:
		return "canceled"
	default:
		return "io"
	}
}

// TargetError is a failure attached to a single target. It never aborts
// the run; it is recorded in the Report instead.
type TargetError struct {
	Path string
	Kind ErrorKind
	Err  error
}

// NewTargetError wraps err for path and classifies it.
func NewTargetError(path string, err error) *TargetError {
	var te *TargetError
	if errors.As(err, &te) {
		return te
	}
	return &TargetError{Path: path, Kind: Classify(err), Err: err}
}

func (e *TargetError) Error() string {
	return e.Path + ": " + e.Reason()
}

// Reason returns the human-readable cause without the path.
func (e *TargetError) Reason() string {
	switch e.Kind {
	case KindNotFound:
		return "No such file or directory"
	case KindPermission:
		return "Permission denied"
	case KindIsDirectory:
		return "Is a directory"
	case KindCanceled:
		return "Canceled"
	}
	if e.Err == nil {
		return "I/O error"
	}
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		return pe.Err.Error()
	}
	return e.Err.Error()
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindIO
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.EISDIR), errors.Is(err, ErrIsDirectory):
		return KindIsDirectory
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindIO
	}
}

// ErrIsDirectory is returned when a directory reaches the counter.
var ErrIsDirectory = errors.New("is a directory")
