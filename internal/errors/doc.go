// Package errors provides error handling conventions for restic-runner.
//
// This package defines sentinel errors for the failure conditions the
// runner distinguishes, and an ExitError type that carries the process
// exit code.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, runerrors.ErrInsufficientSnapshots) {
//	    // nothing to diff yet
//	}
//
// # Error severities
//
// Fatal errors (configuration, engine, resource) abort the run; the
// dispatcher guarantees temporary-resource cleanup before exit. Soft
// errors (content mismatches during verification) are counted and
// reported but never abort the run. The process exit code equals the
// final error count.
//
// # ExitError
//
// [ExitError] wraps an underlying error with the exit code to use.
// It supports unwrapping via [errors.Unwrap] and [errors.As]:
//
//	var exitErr *runerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
