package commands

import (
	"context"

	"github.com/spf13/cobra"

	"restic-runner/internal/verify"
)

var (
	verifyNumFiles int
	verifyCompare  bool
)

func init() {
	verifyCmd.Flags().IntVar(&verifyNumFiles, "files", verify.DefaultNumFiles,
		"number of random files to restore")
	verifyCmd.Flags().BoolVar(&verifyCompare, "compare", false,
		"compare restored files against the live filesystem")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify-randomly",
	Short: "Restore random files from a snapshot and verify them",
	Long: `Restore a random sample of files from a snapshot into a scratch
directory, which is removed afterwards. Only the sampled files are
restored, never the whole snapshot.

With --compare, each restored file is checked byte-for-byte against its
live counterpart. Mismatches are reported individually and counted in
the exit code; they do not abort the remaining comparisons.

The --snapshot flag selects an explicit snapshot; the default is the
most recent tag-scoped one.`,
	Example: `  restic-runner --repo offsite --set home verify-randomly
  restic-runner --repo offsite --set home verify-randomly --files 25 --compare`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		opts := verify.Options{
			Snapshot: snapshotFlag,
			NumFiles: verifyNumFiles,
			Compare:  verifyCompare,
		}
		return r.Run(cmd.Context(), "verify-randomly", func(ctx context.Context) error {
			return r.VerifyRandomly(ctx, opts)
		})
	},
}
