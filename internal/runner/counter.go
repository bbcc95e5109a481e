package runner

import "log/slog"

// Counter accumulates soft failures for one invocation. Its final value
// becomes the process exit code. The count only ever grows; the runner is
// single-threaded so no locking is involved.
type Counter struct {
	n   int
	log *slog.Logger
}

// NewCounter creates a zeroed Counter reporting through logger.
func NewCounter(logger *slog.Logger) *Counter {
	return &Counter{log: logger}
}

// Soft records one failure and reports it with an error severity prefix.
// Processing continues after a soft failure.
func (c *Counter) Soft(msg string, args ...any) {
	c.n++
	c.log.Error(msg, args...)
}

// Value returns the current failure count.
func (c *Counter) Value() int {
	return c.n
}
