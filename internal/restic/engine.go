package restic

import (
	"context"
	"time"
)

// Snapshot is one entry of the engine's snapshot listing. The ID is an
// opaque token; uniqueness is guaranteed by the engine, not checked here.
type Snapshot struct {
	ID       string    `json:"id"`
	ShortID  string    `json:"short_id"`
	Time     time.Time `json:"time"`
	Hostname string    `json:"hostname"`
	Paths    []string  `json:"paths"`
	Tags     []string  `json:"tags"`
}

// BackupRequest carries everything one backup invocation needs.
type BackupRequest struct {
	// Paths are the include paths to back up.
	Paths []string
	// ExcludeFile is the path of the materialized exclude-pattern file,
	// empty when no patterns are configured.
	ExcludeFile string
	// ExcludeIfPresent lists marker filenames; a directory containing one
	// is skipped entirely. Order is preserved on the command line.
	ExcludeIfPresent []string
	// Tag is attached to the created snapshot.
	Tag string
}

// Engine is the capability surface of the backup engine consumed by the
// runner. All methods block until the underlying invocation completes.
type Engine interface {
	// Backup creates a new snapshot.
	Backup(ctx context.Context, req BackupRequest) error

	// Check verifies repository integrity.
	Check(ctx context.Context) error

	// Diff streams the textual diff between two snapshots, calling fn once
	// per output line.
	Diff(ctx context.Context, id1, id2 string, fn func(line string)) error

	// Forget applies the retention policy to tag-scoped snapshots and
	// prunes unreferenced data.
	Forget(ctx context.Context, tag string, keepPolicy []string) error

	// Init initializes a new repository.
	Init(ctx context.Context) error

	// Mount mounts the repository at path and blocks until unmounted.
	Mount(ctx context.Context, path string) error

	// Snapshots returns the tag-scoped snapshot listing, ordered by
	// creation time, oldest first. An empty tag lists all snapshots.
	Snapshots(ctx context.Context, tag string) ([]Snapshot, error)

	// ListEntries returns the paths contained in a snapshot.
	ListEntries(ctx context.Context, snapshotID string) ([]string, error)

	// Restore restores a snapshot into targetDir, limited to the given
	// include filters when any are supplied.
	Restore(ctx context.Context, snapshotID, targetDir string, includes []string) error

	// Raw forwards arbitrary arguments to the engine. The literal token
	// "help" is rewritten to "--help".
	Raw(ctx context.Context, args []string) error
}
