// Package cleanup tracks temporary filesystem resources that must be
// removed on every exit path: normal completion, fatal errors, and
// termination signals.
package cleanup

import (
	"log/slog"
	"os"
	"sync"
)

// Registry is an ordered collection of filesystem paths scheduled for
// removal. Run removes them exactly once no matter how many times it is
// called, which lets both the normal exit path and the signal handler
// invoke it safely.
type Registry struct {
	mu    sync.Mutex
	paths []string
	done  bool
	log   *slog.Logger
}

// NewRegistry creates an empty Registry logging through logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{log: logger}
}

// Register schedules path for removal. Registration order is preserved.
func (r *Registry) Register(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Run removes every registered path. Repeated calls are no-ops.
// Removal errors are logged, not returned: cleanup runs on exit paths
// where there is nothing left to abort.
func (r *Registry) Run() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return
	}
	r.done = true

	for _, p := range r.paths {
		if err := os.RemoveAll(p); err != nil {
			r.log.Warn("removing temporary resource", "path", p, "error", err)
			continue
		}
		r.log.Debug("removed temporary resource", "path", p)
	}
}
