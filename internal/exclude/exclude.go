// Package exclude materializes the exclusion policy for the backup engine.
//
// Glob patterns are written to a temporary file consumed via the engine's
// --exclude-file flag; exclude-if-present markers become repeated flag
// pairs. Backup must not proceed without its exclusion policy honored, so
// a failure to create the pattern file is fatal.
package exclude

import (
	"os"

	"github.com/cockroachdb/errors"

	"restic-runner/internal/cleanup"
	runerrors "restic-runner/internal/errors"
)

// BuildFile writes one pattern per line to a temporary file and registers
// the file for cleanup. It returns an empty path when there are no
// patterns, which callers pass through as "no exclude file".
func BuildFile(patterns []string, reg *cleanup.Registry) (string, error) {
	if len(patterns) == 0 {
		return "", nil
	}

	f, err := os.CreateTemp("", "restic-runner-excludes-*")
	if err != nil {
		return "", errors.Wrapf(runerrors.ErrTempResource, "creating exclude file: %v", err)
	}
	reg.Register(f.Name())

	for _, p := range patterns {
		if _, err := f.WriteString(p + "\n"); err != nil {
			f.Close()
			return "", errors.Wrapf(runerrors.ErrTempResource, "writing exclude file: %v", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(runerrors.ErrTempResource, "closing exclude file: %v", err)
	}

	return f.Name(), nil
}
