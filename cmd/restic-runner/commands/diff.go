package commands

import (
	"context"

	"github.com/spf13/cobra"

	"restic-runner/internal/diff"
)

var (
	diffAdded    bool
	diffModified bool
	diffRemoved  bool
)

func init() {
	diffCmd.Flags().BoolVar(&diffAdded, "added", false, "show only added entries")
	diffCmd.Flags().BoolVar(&diffModified, "modified", false, "show only modified entries")
	diffCmd.Flags().BoolVar(&diffRemoved, "removed", false, "show only removed entries")
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff [snapshot-id [snapshot-id]]",
	Short: "Diff two snapshots",
	Long: `Diff two snapshots and print the changed entries.

With two identifiers they are compared in the given order. With one, it
is compared against the most recent tag-scoped snapshot. With none, the
two most recent tag-scoped snapshots are compared.

Requesting both --added and --modified prints only the path of each
matching entry.`,
	Example: `  # Changes between the two most recent nightly snapshots
  restic-runner --repo offsite --set home diff

  # New files since a known snapshot
  restic-runner --repo offsite --set home diff 4f21ab9c --added`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		filter := diff.FilterFromFlags(diffAdded, diffModified, diffRemoved)
		return r.Run(cmd.Context(), "diff", func(ctx context.Context) error {
			return r.Diff(ctx, args, filter)
		})
	},
}
