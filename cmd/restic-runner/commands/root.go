// Package commands implements the CLI commands for restic-runner.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"restic-runner/internal/cleanup"
	"restic-runner/internal/config"
	runerrors "restic-runner/internal/errors"
	"restic-runner/internal/logging"
	"restic-runner/internal/restic"
	"restic-runner/internal/runner"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// repoFlag holds the value of the --repo flag.
var repoFlag string

// setFlag holds the value of the --set flag.
var setFlag string

// tagFlag overrides the configured tag when non-empty.
var tagFlag string

// snapshotFlag overrides the target snapshot for verification.
var snapshotFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path of an optional JSON log sink.
var logFile string

var errQuietVerbose = errors.New("cannot use --quiet and --verbose together")

// Run state shared by the command tree, constructed in the persistent
// pre-run once logging is configured.
var (
	logger   *slog.Logger
	cfg      *config.Config
	counter  *runner.Counter
	registry *cleanup.Registry
)

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"repository configuration to load")
	rootCmd.PersistentFlags().StringVar(&setFlag, "set", "",
		"backup-set configuration to load")
	rootCmd.PersistentFlags().StringVar(&tagFlag, "tag", "",
		"override the configured snapshot tag")
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "",
		"snapshot to operate on (default: latest)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("restic-runner version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "restic-runner",
	Short: "Policy and orchestration front end for restic",
	Long: `restic-runner layers per-repository and per-backup-set configuration
on top of the restic backup engine and dispatches to one of a fixed set
of operations.

Configuration lives as plain TOML files under the configuration root:
a global runner file, one file per repository, and one file per backup
set. Later layers override earlier ones, so a set can redefine the tag,
include paths, or retention policy a repository established.

The process exit code equals the number of errors encountered; zero
means a clean run.`,
	Example: `  # Nightly backup of the "home" set to the "offsite" repository
  restic-runner --repo offsite --set home backup

  # Show what changed between the two most recent snapshots
  restic-runner --repo offsite --set home diff --added

  # Restore ten random files and compare them against the live system
  restic-runner --repo offsite --set home verify-randomly --compare`,
	// Commands are a fixed enumeration; anything unrecognized must fail
	// before any side effect occurs.
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return errors.Wrapf(runerrors.ErrUnknownCommand, "%q", args[0])
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return resolveConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags and
// initializes the run state that depends on it.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errQuietVerbose
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		level = logging.LevelFromVerbosity(verbosity)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)

	counter = runner.NewCounter(logger)
	registry = cleanup.NewRegistry(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// resolveConfig loads the configuration layers selected by --repo/--set.
// Commands that never touch the engine skip resolution.
func resolveConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "completion", "gen-doc":
		cfg = &config.Config{}
		return nil
	}

	resolved, err := config.Resolve(repoFlag, setFlag)
	if err != nil {
		return err
	}
	if tagFlag != "" {
		resolved.Tag = tagFlag
	}
	cfg = resolved

	logger.Debug("resolved configuration", "config", cfg.Dump())
	return nil
}

// newRunner validates the engine invariants and builds the dispatcher for
// one command.
func newRunner() (*runner.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eng := restic.NewExecEngine(cfg.Repository, cfg.PasswordFile, logger)
	return runner.New(cfg, eng, logger, counter, registry), nil
}

// Execute runs the root command. A run with a non-zero error count
// returns an ExitError carrying that count as the process exit code.
// Temporary resources are removed on every exit path, including
// interruption.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if registry != nil {
		registry.Run()
	}

	if err != nil {
		if counter == nil {
			counter = runner.NewCounter(logging.Default())
		}
		counter.Soft(err.Error())
	}
	if counter != nil && counter.Value() > 0 {
		return runerrors.NewExitError(err, counter.Value())
	}
	return nil
}
