package restic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	runerrors "restic-runner/internal/errors"
)

// DefaultBinary is the engine executable looked up on PATH.
const DefaultBinary = "restic"

// ExecEngine invokes the restic binary as a subprocess. The repository
// location and credential file are passed through the child environment,
// never on the command line.
type ExecEngine struct {
	Binary       string
	Repository   string
	PasswordFile string

	// Stdout and Stderr receive the engine's streams for interactive
	// commands. They default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	log *slog.Logger
}

// NewExecEngine creates an ExecEngine for the given repository credentials.
func NewExecEngine(repository, passwordFile string, logger *slog.Logger) *ExecEngine {
	return &ExecEngine{
		Binary:       DefaultBinary,
		Repository:   repository,
		PasswordFile: passwordFile,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		log:          logger,
	}
}

// command builds an exec.Cmd with the engine environment applied.
func (e *ExecEngine) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Env = append(os.Environ(),
		"RESTIC_REPOSITORY="+e.Repository,
		"RESTIC_PASSWORD_FILE="+e.PasswordFile,
	)
	return cmd
}

// run executes the engine with streams forwarded and wraps a non-zero exit.
func (e *ExecEngine) run(ctx context.Context, args ...string) error {
	e.log.Debug("invoking engine", "args", strings.Join(args, " "))

	cmd := e.command(ctx, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(runerrors.ErrEngineFailed, "restic %s: %v", args[0], err)
	}
	return nil
}

// output executes the engine capturing stdout; stderr is forwarded.
func (e *ExecEngine) output(ctx context.Context, args ...string) ([]byte, error) {
	e.log.Debug("invoking engine", "args", strings.Join(args, " "))

	cmd := e.command(ctx, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(runerrors.ErrEngineFailed, "restic %s: %v", args[0], err)
	}
	return buf.Bytes(), nil
}

// Backup implements Engine.
func (e *ExecEngine) Backup(ctx context.Context, req BackupRequest) error {
	return e.run(ctx, backupArgs(req)...)
}

// Check implements Engine.
func (e *ExecEngine) Check(ctx context.Context) error {
	return e.run(ctx, "check")
}

// Diff implements Engine. Output lines are delivered to fn as they arrive.
func (e *ExecEngine) Diff(ctx context.Context, id1, id2 string, fn func(line string)) error {
	e.log.Debug("invoking engine", "args", "diff "+id1+" "+id2)

	cmd := e.command(ctx, "diff", id1, id2)
	cmd.Stderr = e.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "attaching diff output")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(runerrors.ErrEngineFailed, "restic diff: %v", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return errors.Wrap(err, "reading diff output")
	}

	if err := cmd.Wait(); err != nil {
		return errors.Wrapf(runerrors.ErrEngineFailed, "restic diff: %v", err)
	}
	return nil
}

// Forget implements Engine.
func (e *ExecEngine) Forget(ctx context.Context, tag string, keepPolicy []string) error {
	return e.run(ctx, forgetArgs(tag, keepPolicy)...)
}

// Init implements Engine.
func (e *ExecEngine) Init(ctx context.Context) error {
	return e.run(ctx, "init")
}

// Mount implements Engine. Blocks until the filesystem is unmounted.
func (e *ExecEngine) Mount(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(runerrors.ErrTempResource, "mount point %s: %v", path, err)
	}
	return e.run(ctx, "mount", path)
}

// Snapshots implements Engine. The listing is decoded from the engine's
// JSON output and returned oldest first.
func (e *ExecEngine) Snapshots(ctx context.Context, tag string) ([]Snapshot, error) {
	args := []string{"snapshots", "--json"}
	if tag != "" {
		args = append(args, "--tag", tag)
	}

	out, err := e.output(ctx, args...)
	if err != nil {
		return nil, err
	}

	var snaps []Snapshot
	if err := json.Unmarshal(out, &snaps); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot listing")
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Time.Before(snaps[j].Time)
	})
	return snaps, nil
}

// ListEntries implements Engine. The engine prints a header line naming the
// snapshot before the entry paths; only path lines are returned.
func (e *ExecEngine) ListEntries(ctx context.Context, snapshotID string) ([]string, error) {
	out, err := e.output(ctx, "ls", snapshotID)
	if err != nil {
		return nil, err
	}
	return parseEntryListing(out), nil
}

// Restore implements Engine.
func (e *ExecEngine) Restore(ctx context.Context, snapshotID, targetDir string, includes []string) error {
	return e.run(ctx, restoreArgs(snapshotID, targetDir, includes)...)
}

// Raw implements Engine.
func (e *ExecEngine) Raw(ctx context.Context, args []string) error {
	return e.run(ctx, rawArgs(args)...)
}

func backupArgs(req BackupRequest) []string {
	args := []string{"backup"}
	args = append(args, req.Paths...)
	if req.ExcludeFile != "" {
		args = append(args, "--exclude-file", req.ExcludeFile)
	}
	for _, marker := range req.ExcludeIfPresent {
		args = append(args, "--exclude-if-present", marker)
	}
	if req.Tag != "" {
		args = append(args, "--tag", req.Tag)
	}
	return args
}

// forgetArgs assembles the retention arguments. Policy entries may carry
// embedded spaces ("--keep-daily 7") and are split into separate argv
// elements.
func forgetArgs(tag string, keepPolicy []string) []string {
	args := []string{"forget"}
	if tag != "" {
		args = append(args, "--tag", tag)
	}
	args = append(args, "--prune")
	for _, entry := range keepPolicy {
		args = append(args, strings.Fields(entry)...)
	}
	return args
}

func restoreArgs(snapshotID, targetDir string, includes []string) []string {
	args := []string{"restore", snapshotID, "--target", targetDir}
	for _, inc := range includes {
		args = append(args, "--include", inc)
	}
	return args
}

// rawArgs forwards caller arguments untouched except for the literal token
// "help", which becomes "--help" so that "restic-runner command help" works.
func rawArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "help" {
			out[i] = "--help"
			continue
		}
		out[i] = a
	}
	return out
}

// parseEntryListing keeps only entry path lines from "restic ls" output,
// dropping the snapshot header and blank lines.
func parseEntryListing(out []byte) []string {
	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "/") {
			entries = append(entries, line)
		}
	}
	return entries
}
