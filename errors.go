package vfs

import (
	"errors"
	"fmt"
)

// A Code identifies the kind of failure behind a PathError, mirroring the
// small, POSIX-flavored set of errno categories a filesystem facade needs to
// distinguish, rather than the full errno table.
type Code int

const (
	// CodeNone means no error occurred.
	CodeNone Code = iota
	// CodeNoSuchFileOrDirectory means a path component does not exist.
	CodeNoSuchFileOrDirectory
	// CodeFileExists means a path already denotes an entry of a conflicting type.
	CodeFileExists
	// CodeDirectoryNotEmpty means removing or overwriting a directory that still has entries.
	CodeDirectoryNotEmpty
	// CodeInvalidArgument means an operation was given a path or combination it cannot service.
	CodeInvalidArgument
	// CodeCrossDeviceLink means a link or atomic rename was attempted across trees.
	CodeCrossDeviceLink
	// CodeFileTooLarge means a bulk copy could not write everything it read.
	CodeFileTooLarge
	// CodeFunctionNotSupported means the backend does not implement the requested operation.
	CodeFunctionNotSupported
)

// String renders the code the way an errno category name would read.
func (c Code) String() string {
	switch c {
	case CodeNone:
		return "no error"
	case CodeNoSuchFileOrDirectory:
		return "no such file or directory"
	case CodeFileExists:
		return "file exists"
	case CodeDirectoryNotEmpty:
		return "directory not empty"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeCrossDeviceLink:
		return "cross device link"
	case CodeFileTooLarge:
		return "file too large"
	case CodeFunctionNotSupported:
		return "function not supported"
	default:
		return "unknown error"
	}
}

// A PathError records a failed filesystem operation together with the
// path(s) that caused it and, when the failure originated on the host OS,
// the underlying error. This is the error-code variant's payload and the
// throwing variant's panic value described in SPEC_FULL.md §6.1.
type PathError struct {
	Op    string
	Path  Path
	Path2 *Path
	Code  Code
	Err   error
}

func (e *PathError) Error() string {
	if e == nil || e.Code == CodeNone {
		return ""
	}
	msg := e.Op + " " + string(e.Path)
	if e.Path2 != nil {
		msg += " -> " + string(*e.Path2)
	}
	msg += ": " + e.Code.String()
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Unwrap exposes the underlying host-OS error, if any, to errors.Is/As.
func (e *PathError) Unwrap() error {
	return e.Err
}

// newErr builds a one-path PathError.
func newErr(op string, path Path, code Code) *PathError {
	return &PathError{Op: op, Path: path, Code: code}
}

// newErr2 builds a two-path PathError, used by rename and the copy family.
func newErr2(op string, path, path2 Path, code Code) *PathError {
	return &PathError{Op: op, Path: path, Path2: &path2, Code: code}
}

// wrapErr wraps a lower-level error (typically from the host-OS backend)
// with the operation's own code classification.
func wrapErr(op string, path Path, code Code, cause error) *PathError {
	return &PathError{Op: op, Path: path, Code: code, Err: cause}
}

// IsNotExist reports whether err denotes a missing path, mirroring
// os.IsNotExist for this module's own error type.
func IsNotExist(err error) bool {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Code == CodeNoSuchFileOrDirectory
	}
	return false
}

// ErrCode extracts the Code carried by err, or CodeNone if err is nil or not
// a *PathError.
func ErrCode(err error) Code {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeNone
}

// must panics with err if it is non-nil. It is the Go analogue of the
// throwing entry-point variants in SPEC_FULL.md §6.1: a programming error,
// not a recoverable I/O failure, is signaled by panicking with the same
// *PathError the code-returning sibling would have produced.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustV[T any](v T, err error) T {
	must(err)
	return v
}
