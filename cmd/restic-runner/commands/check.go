package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Check repository integrity",
	Example: `  restic-runner --repo offsite check`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "check", r.Check)
	},
}
