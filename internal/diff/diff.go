// Package diff selects snapshot pairs and filters the engine's diff output.
package diff

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/restic"
)

// Filter narrows the diff output to one class of change.
type Filter int

const (
	// FilterNone passes every line unmodified.
	FilterNone Filter = iota
	// FilterAdded keeps lines describing added entries.
	FilterAdded
	// FilterModified keeps lines describing modified entries.
	FilterModified
	// FilterAddedOrModified keeps added and modified entries, emitting only
	// the trailing path token of each matching line.
	FilterAddedOrModified
	// FilterRemoved keeps lines describing removed entries.
	FilterRemoved
)

// FilterFromFlags derives the active filter from the command-line toggles.
// Precedence is fixed: added+modified beats the single-flag filters, and
// removed applies only when neither of the others is requested.
func FilterFromFlags(added, modified, removed bool) Filter {
	switch {
	case added && modified:
		return FilterAddedOrModified
	case added:
		return FilterAdded
	case modified:
		return FilterModified
	case removed:
		return FilterRemoved
	default:
		return FilterNone
	}
}

// Apply evaluates one diff output line against the filter. It returns the
// line to emit and whether the line passes.
//
// FilterAddedOrModified emits only the trailing whitespace-separated token
// of matching lines while the other filters pass full lines. The original
// tool behaved this way and downstream consumers depend on it, so the
// asymmetry is kept.
func (f Filter) Apply(line string) (string, bool) {
	switch f {
	case FilterAdded:
		return line, strings.HasPrefix(line, "+")
	case FilterModified:
		return line, strings.HasPrefix(line, "M")
	case FilterRemoved:
		return line, strings.HasPrefix(line, "-")
	case FilterAddedOrModified:
		if !strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "M") {
			return "", false
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return "", false
		}
		return fields[len(fields)-1], true
	default:
		return line, true
	}
}

// SelectPair chooses the two snapshot identifiers to diff.
//
// Explicit identifiers win: two are used as-is in caller order, one is
// paired with the most recent snapshot of the tag-scoped listing. With no
// explicit identifiers the two most recent snapshots are compared, which
// requires the listing to hold at least two entries.
func SelectPair(explicit []string, snaps []restic.Snapshot) (string, string, error) {
	switch {
	case len(explicit) >= 2:
		return explicit[0], explicit[1], nil
	case len(explicit) == 1:
		if len(snaps) == 0 {
			return "", "", errors.Wrap(runerrors.ErrInsufficientSnapshots,
				"no snapshot to pair with the given identifier")
		}
		return explicit[0], snaps[len(snaps)-1].ID, nil
	default:
		if len(snaps) < 2 {
			return "", "", errors.Wrapf(runerrors.ErrInsufficientSnapshots,
				"found %d", len(snaps))
		}
		return snaps[len(snaps)-2].ID, snaps[len(snaps)-1].ID, nil
	}
}

// Engine diffs two snapshots through a filter.
type Engine struct {
	Backend restic.Engine
	Tag     string
	Log     *slog.Logger
}

// Run resolves the snapshot pair, requests the diff from the backend, and
// streams matching lines to out. The tag-scoped listing is fetched only
// when the caller supplied fewer than two explicit identifiers.
func (e *Engine) Run(ctx context.Context, explicit []string, filter Filter, out io.Writer) error {
	var snaps []restic.Snapshot
	if len(explicit) < 2 {
		var err error
		snaps, err = e.Backend.Snapshots(ctx, e.Tag)
		if err != nil {
			return err
		}
	}

	id1, id2, err := SelectPair(explicit, snaps)
	if err != nil {
		return err
	}
	e.Log.Info("diffing snapshots", "from", id1, "to", id2)

	return e.Backend.Diff(ctx, id1, id2, func(line string) {
		if emitted, ok := filter.Apply(line); ok {
			fmt.Fprintln(out, emitted)
		}
	})
}
