package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the configured include paths",
	Long: `Back up the include paths of the selected backup set.

The configured exclude patterns are written to a temporary exclude file
handed to the engine, and each exclude-if-present marker is passed as a
repeated engine flag. The snapshot is tagged with the configured tag.`,
	Example: `  restic-runner --repo offsite --set home backup`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "backup", r.Backup)
	},
}
