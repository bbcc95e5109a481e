// Package restictest provides a fake Engine implementation for tests.
package restictest

import (
	"context"

	"restic-runner/internal/restic"
)

// RestoreCall records one Restore invocation.
type RestoreCall struct {
	SnapshotID string
	TargetDir  string
	Includes   []string
}

// ForgetCall records one Forget invocation.
type ForgetCall struct {
	Tag        string
	KeepPolicy []string
}

// DiffCall records one Diff invocation.
type DiffCall struct {
	ID1, ID2 string
}

// Fake is a canned, recording implementation of restic.Engine.
type Fake struct {
	SnapshotsResult []restic.Snapshot
	SnapshotsErr    error

	EntriesResult []string
	EntriesErr    error

	DiffLines []string
	DiffErr   error

	BackupErr  error
	CheckErr   error
	ForgetErr  error
	InitErr    error
	MountErr   error
	RestoreErr error
	RawErr     error

	// RestoreHook runs during Restore, letting tests materialize restored
	// files under the target directory.
	RestoreHook func(call RestoreCall) error

	BackupReqs   []restic.BackupRequest
	DiffCalls    []DiffCall
	ForgetCalls  []ForgetCall
	RestoreCalls []RestoreCall
	RawCalls     [][]string
	MountPaths   []string
	CheckCount   int
	InitCount    int
}

var _ restic.Engine = (*Fake)(nil)

func (f *Fake) Backup(_ context.Context, req restic.BackupRequest) error {
	f.BackupReqs = append(f.BackupReqs, req)
	return f.BackupErr
}

func (f *Fake) Check(context.Context) error {
	f.CheckCount++
	return f.CheckErr
}

func (f *Fake) Diff(_ context.Context, id1, id2 string, fn func(line string)) error {
	f.DiffCalls = append(f.DiffCalls, DiffCall{ID1: id1, ID2: id2})
	if f.DiffErr != nil {
		return f.DiffErr
	}
	for _, line := range f.DiffLines {
		fn(line)
	}
	return nil
}

func (f *Fake) Forget(_ context.Context, tag string, keepPolicy []string) error {
	f.ForgetCalls = append(f.ForgetCalls, ForgetCall{Tag: tag, KeepPolicy: keepPolicy})
	return f.ForgetErr
}

func (f *Fake) Init(context.Context) error {
	f.InitCount++
	return f.InitErr
}

func (f *Fake) Mount(_ context.Context, path string) error {
	f.MountPaths = append(f.MountPaths, path)
	return f.MountErr
}

func (f *Fake) Snapshots(context.Context, string) ([]restic.Snapshot, error) {
	return f.SnapshotsResult, f.SnapshotsErr
}

func (f *Fake) ListEntries(context.Context, string) ([]string, error) {
	return f.EntriesResult, f.EntriesErr
}

func (f *Fake) Restore(_ context.Context, snapshotID, targetDir string, includes []string) error {
	call := RestoreCall{SnapshotID: snapshotID, TargetDir: targetDir, Includes: includes}
	f.RestoreCalls = append(f.RestoreCalls, call)
	if f.RestoreErr != nil {
		return f.RestoreErr
	}
	if f.RestoreHook != nil {
		return f.RestoreHook(call)
	}
	return nil
}

func (f *Fake) Raw(_ context.Context, args []string) error {
	f.RawCalls = append(f.RawCalls, args)
	return f.RawErr
}
