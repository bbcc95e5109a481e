// Package runner dispatches validated commands to their components and
// tracks per-run metrics and failures.
//
// The run proceeds through fixed stages: configuration is resolved once,
// the requested command is validated against the known set (cobra rejects
// anything else before side effects), the matched component executes, and
// end-of-run metrics are recorded. Wall-clock duration is always logged at
// completion, even after soft errors; a fatal abort skips the measurements
// that come after it.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"restic-runner/internal/cleanup"
	"restic-runner/internal/config"
	"restic-runner/internal/diff"
	"restic-runner/internal/exclude"
	"restic-runner/internal/restic"
	"restic-runner/internal/verify"
)

// Runner holds everything one invocation needs: the resolved configuration,
// the engine boundary, the failure counter, and the temporary-resource
// registry. It is constructed once after configuration resolution.
type Runner struct {
	Config  *config.Config
	Engine  restic.Engine
	Log     *slog.Logger
	Errors  *Counter
	Cleanup *cleanup.Registry

	// Out receives command output (filtered diff lines). Defaults to
	// os.Stdout.
	Out io.Writer
}

// New creates a Runner around the given configuration and engine.
func New(cfg *config.Config, eng restic.Engine, logger *slog.Logger, counter *Counter, reg *cleanup.Registry) *Runner {
	return &Runner{
		Config:  cfg,
		Engine:  eng,
		Log:     logger,
		Errors:  counter,
		Cleanup: reg,
		Out:     os.Stdout,
	}
}

// Run executes op with end-of-run metrics around it. When disk-usage
// reporting is enabled the repository size is measured before and after
// execution and the signed delta logged. A fatal error from fn aborts
// before the trailing measurements.
func (r *Runner) Run(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()

	var sizeBefore int64
	measured := false
	if r.Config.DuReport {
		var err error
		sizeBefore, err = restic.RepositorySizeBytes(r.Config.Repository)
		if err != nil {
			r.Log.Warn("skipping disk-usage report", "error", err)
		} else {
			measured = true
		}
	}

	if err := fn(ctx); err != nil {
		return err
	}

	if measured {
		sizeAfter, err := restic.RepositorySizeBytes(r.Config.Repository)
		if err != nil {
			r.Log.Warn("skipping disk-usage report", "error", err)
		} else {
			r.Log.Info("repository size",
				"before", humanize.Bytes(uint64(sizeBefore)),
				"after", humanize.Bytes(uint64(sizeAfter)),
				"delta", FormatDelta(sizeBefore, sizeAfter))
		}
	}

	r.Log.Info("finished", "command", op, "duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// FormatDelta renders a signed human-readable size difference.
func FormatDelta(before, after int64) string {
	delta := after - before
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return sign + humanize.Bytes(uint64(delta))
}

// Backup materializes the exclusion policy and invokes the engine's backup
// operation for the configured include paths.
func (r *Runner) Backup(ctx context.Context) error {
	excludeFile, err := exclude.BuildFile(r.Config.ExcludePatterns, r.Cleanup)
	if err != nil {
		return err
	}

	return r.Engine.Backup(ctx, restic.BackupRequest{
		Paths:            r.Config.IncludePaths,
		ExcludeFile:      excludeFile,
		ExcludeIfPresent: r.Config.ExcludeIfPresent,
		Tag:              r.Config.Tag,
	})
}

// Check verifies repository integrity.
func (r *Runner) Check(ctx context.Context) error {
	return r.Engine.Check(ctx)
}

// Diff streams the filtered diff of the selected snapshot pair to r.Out.
func (r *Runner) Diff(ctx context.Context, explicit []string, filter diff.Filter) error {
	eng := &diff.Engine{Backend: r.Engine, Tag: r.Config.Tag, Log: r.Log}
	return eng.Run(ctx, explicit, filter, r.Out)
}

// Expire applies the configured retention policy and prunes.
func (r *Runner) Expire(ctx context.Context) error {
	return r.Engine.Forget(ctx, r.Config.Tag, r.Config.KeepPolicy)
}

// Init initializes the repository.
func (r *Runner) Init(ctx context.Context) error {
	return r.Engine.Init(ctx)
}

// Mount mounts the repository and blocks until unmounted.
func (r *Runner) Mount(ctx context.Context, path string) error {
	return r.Engine.Mount(ctx, path)
}

// Passthrough forwards raw arguments to the engine.
func (r *Runner) Passthrough(ctx context.Context, args []string) error {
	r.Log.Debug("passing through", "args", strings.Join(args, " "))
	return r.Engine.Raw(ctx, args)
}

// VerifyRandomly restores a random sample of the snapshot and optionally
// compares it against the live filesystem. Mismatches are soft errors.
func (r *Runner) VerifyRandomly(ctx context.Context, opts verify.Options) error {
	eng := &verify.Engine{
		Backend: r.Engine,
		Tag:     r.Config.Tag,
		Log:     r.Log,
		Scratch: r.Cleanup,
		Report:  r.Errors,
	}
	return eng.Run(ctx, opts)
}
