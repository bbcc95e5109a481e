package commands

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, _ := cmd.Flags().GetString("dir")
		if outputDir == "" {
			return errors.New("output directory is required")
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		if err := doc.GenMarkdownTree(rootCmd, outputDir); err != nil {
			return errors.Wrap(err, "generating markdown")
		}

		fmt.Printf("Documentation generated in %s\n", outputDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringP("dir", "d", "", "Output directory for documentation")
	rootCmd.AddCommand(genDocCmd)
}
