package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(expireCmd)
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Apply the retention policy and prune",
	Long: `Forget tag-scoped snapshots according to the configured keep policy
and prune unreferenced data from the repository.`,
	Example: `  restic-runner --repo offsite --set home expire`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "expire", r.Expire)
	},
}
