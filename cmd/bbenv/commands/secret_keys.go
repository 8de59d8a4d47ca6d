package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bbenv/internal/config"
)

func NewSecretKeysCommand(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "secret-keys --out <file>",
		Short: "Export the keys of secured variables to a JSON file",
		Long: `Write the ordered list of secured variable keys as a JSON array of
strings. Values never appear in the output; this is the safe way to take
stock of which secrets an environment defines.

Examples:
  bbenv secret-keys -w my-team -r my-repo -d production --out secrets.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scope, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			deployment, err := requireDeployment(cfg)
			if err != nil {
				return err
			}
			return engine.ExportSecretKeys(cmd.Context(), scope, deployment, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output JSON file (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
