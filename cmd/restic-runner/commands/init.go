package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize the repository",
	Example: `  restic-runner --repo offsite init`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "init", r.Init)
	},
}
