// Package verify checks repository integrity by restoring a random sample
// of files from a snapshot and comparing them against the live filesystem.
//
// Restoring the full snapshot is deliberately avoided: the restore request
// is scoped with one include filter per sampled path, so only the sample
// is materialized in the scratch directory.
package verify

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"restic-runner/internal/cleanup"
	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/restic"
)

// DefaultNumFiles is the sample size when the caller does not choose one.
const DefaultNumFiles = 10

// SnapshotLatest resolves to the most recent snapshot of the tag scope.
const SnapshotLatest = "latest"

// ErrorReporter records soft failures. Soft failures are counted and
// reported but never abort the remaining comparisons.
type ErrorReporter interface {
	Soft(msg string, args ...any)
}

// Options select what to verify.
type Options struct {
	// Snapshot is an explicit identifier, or SnapshotLatest (or empty) to
	// resolve the most recent tag-scoped snapshot.
	Snapshot string
	// NumFiles is the requested sample size; DefaultNumFiles when zero.
	NumFiles int
	// Compare enables byte-for-byte comparison of restored content against
	// the live filesystem.
	Compare bool
}

// Engine runs randomized restore verification.
type Engine struct {
	Backend restic.Engine
	Tag     string
	Log     *slog.Logger
	Scratch *cleanup.Registry
	Report  ErrorReporter
}

// Run executes the verification steps in order: resolve the snapshot,
// allocate a scratch directory, sample entries, restore the sample, and
// optionally compare restored content against the live filesystem.
//
// A restore failure is fatal. Content mismatches are soft errors.
func (e *Engine) Run(ctx context.Context, opts Options) error {
	id, err := e.resolveSnapshot(ctx, opts.Snapshot)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "restic-runner-verify-*")
	if err != nil {
		return errors.Wrapf(runerrors.ErrTempResource, "creating restore directory: %v", err)
	}
	e.Scratch.Register(dir)

	entries, err := e.Backend.ListEntries(ctx, id)
	if err != nil {
		return err
	}

	num := opts.NumFiles
	if num <= 0 {
		num = DefaultNumFiles
	}
	sample := e.sample(entries, num)
	if len(sample) == 0 {
		return errors.Wrapf(runerrors.ErrEmptySample, "snapshot %s", id)
	}
	e.Log.Info("verifying snapshot", "snapshot", id, "files", len(sample))

	if err := e.Backend.Restore(ctx, id, dir, sample); err != nil {
		return errors.Wrapf(runerrors.ErrVerifyFailed, "restoring sample from %s: %v", id, err)
	}

	if !opts.Compare {
		return nil
	}

	for _, path := range sample {
		e.comparePath(dir, path)
	}
	return nil
}

// resolveSnapshot maps the requested identifier to a concrete snapshot ID.
func (e *Engine) resolveSnapshot(ctx context.Context, requested string) (string, error) {
	if requested != "" && requested != SnapshotLatest {
		return requested, nil
	}

	snaps, err := e.Backend.Snapshots(ctx, e.Tag)
	if err != nil {
		return "", err
	}
	if len(snaps) == 0 {
		return "", errors.Wrapf(runerrors.ErrSnapshotResolution, "tag %q", e.Tag)
	}
	return snaps[len(snaps)-1].ID, nil
}

// sample draws k distinct entries without replacement. A request larger
// than the listing is clamped to the listing size with a warning, which
// keeps a short snapshot verifiable.
func (e *Engine) sample(entries []string, k int) []string {
	if k > len(entries) {
		if len(entries) > 0 {
			e.Log.Warn("sample larger than snapshot listing, clamping",
				"requested", k, "available", len(entries))
		}
		k = len(entries)
	}

	out := make([]string, 0, k)
	for _, idx := range rand.Perm(len(entries))[:k] {
		out = append(out, entries[idx])
	}
	return out
}

// comparePath checks one sampled path. Directories are enumerated
// recursively over their restored files; plain files are compared
// directly. Every divergence is reported as a soft error and the
// remaining comparisons continue.
func (e *Engine) comparePath(scratchDir, path string) {
	restored := filepath.Join(scratchDir, path)

	info, err := os.Stat(restored)
	if err != nil {
		e.Report.Soft("sampled path missing from restore", "path", path, "error", err)
		return
	}

	if !info.IsDir() {
		e.compareFile(restored, path)
		return
	}

	walkErr := filepath.WalkDir(restored, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(scratchDir, p)
		if err != nil {
			return err
		}
		e.compareFile(p, string(filepath.Separator)+rel)
		return nil
	})
	if walkErr != nil {
		e.Report.Soft("enumerating restored directory", "path", path, "error", walkErr)
	}
}

// compareFile reports a soft error unless restored and live are
// byte-for-byte identical.
func (e *Engine) compareFile(restored, live string) {
	same, err := equalContents(restored, live)
	if err != nil {
		e.Report.Soft("comparing file", "path", live, "error", err)
		return
	}
	if !same {
		e.Report.Soft("content mismatch", "path", live)
		return
	}
	e.Log.Debug("file verified", "path", live)
}

// equalContents streams both files and reports byte-for-byte equality.
func equalContents(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)

		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		endA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		endB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		switch {
		case errA == nil && errB == nil:
			continue
		case endA && endB:
			return nA == nB, nil
		case endA != endB:
			return false, nil
		default:
			if errA != nil && !endA {
				return false, errA
			}
			return false, errB
		}
	}
}
