package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mountCmd)
}

var mountCmd = &cobra.Command{
	Use:   "mount <path>",
	Short: "Mount the repository",
	Long: `Mount the repository as a browsable filesystem at the given path.
Blocks until the filesystem is unmounted.`,
	Example: `  restic-runner --repo offsite mount /mnt/snapshots`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "mount", func(ctx context.Context) error {
			return r.Mount(ctx, args[0])
		})
	},
}
