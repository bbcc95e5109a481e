package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	// Flags after the first positional belong to the engine, not to us.
	commandCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(commandCmd)
}

var commandCmd = &cobra.Command{
	Use:     "command <args>...",
	Aliases: []string{"passthrough"},
	Short:   "Run an arbitrary engine command against the repository",
	Long: `Forward the remaining arguments to the engine verbatim, with the
repository environment applied. The literal argument "help" is rewritten
to "--help".`,
	Example: `  restic-runner --repo offsite command snapshots --last
  restic-runner --repo offsite command unlock`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), "command", func(ctx context.Context) error {
			return r.Passthrough(ctx, args)
		})
	},
}
