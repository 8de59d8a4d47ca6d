package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bbenv/internal/config"
)

func NewExportCommand(cfg *config.Config) *cobra.Command {
	var (
		outPath string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "export --out <file>",
		Short: "Export deployment environment variables to a JSON file",
		Long: `Export the variables of a deployment environment as a JSON array of
{key, value, secured} objects.

By default only non-secured variables are written; secured entries are
skipped with a note. With --all every variable is written, but secured
values are redacted to "" (the store never returns them in plaintext).

If the environment has no variables configured, no output file is written.

Examples:
  bbenv export -w my-team -r my-repo -d staging --out staging.json
  bbenv export -w my-team -r my-repo -d production --all --out prod-all.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scope, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			deployment, err := requireDeployment(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if all {
				return engine.ExportAll(ctx, scope, deployment, outPath)
			}
			return engine.ExportPlain(ctx, scope, deployment, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output JSON file (required)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include secured variables with redacted values")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
