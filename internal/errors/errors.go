package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the runner's failure taxonomy.
var (
	// ErrConfigLoad indicates a named configuration layer was missing or unreadable.
	ErrConfigLoad = errors.New("config load failed")

	// ErrUnknownCommand indicates the requested command is not a known operation.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrTempResource indicates a temporary artifact (exclude file, scratch
	// directory) could not be created.
	ErrTempResource = errors.New("temporary resource unavailable")

	// ErrInsufficientSnapshots indicates the tag-scoped listing held fewer
	// than two snapshots, so there is nothing to diff.
	ErrInsufficientSnapshots = errors.New("fewer than two snapshots")

	// ErrSnapshotResolution indicates no snapshot matched the requested
	// identifier or tag.
	ErrSnapshotResolution = errors.New("snapshot not found")

	// ErrEmptySample indicates the snapshot listing produced no entries to
	// sample for verification.
	ErrEmptySample = errors.New("empty verification sample")

	// ErrVerifyFailed indicates the verification restore step itself failed.
	ErrVerifyFailed = errors.New("verification restore failed")

	// ErrEngineFailed indicates the backup engine subprocess exited non-zero.
	ErrEngineFailed = errors.New("backup engine failed")
)

// ExitError wraps an error with the process exit code. It implements the
// error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system. By
	// convention this is the error-counter value at the time of the
	// fatal failure.
	Code int
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
