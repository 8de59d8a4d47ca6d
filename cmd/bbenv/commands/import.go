package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/bbenv/internal/config"
)

func NewImportCommand(cfg *config.Config) *cobra.Command {
	var includeSecrets bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import variables from a JSON file into a deployment environment",
		Long: `Read a JSON array of {key, value, secured} objects and reconcile each
entry against the deployment environment: an entry whose key already exists
remotely is updated in place, any other entry is created. Nothing is ever
deleted.

Secured entries are skipped unless --include-secrets is given; secrets only
reach the store on explicit opt-in. A failed write aborts the run
immediately, leaving earlier entries already applied.

Examples:
  bbenv import -w my-team -r my-repo -d staging staging.json
  bbenv import -w my-team -r my-repo -d staging --include-secrets staging.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scope, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			deployment, err := requireDeployment(cfg)
			if err != nil {
				return err
			}
			return engine.Import(cmd.Context(), scope, deployment, args[0], includeSecrets)
		},
	}

	cmd.Flags().BoolVar(&includeSecrets, "include-secrets", false, "Also import entries flagged secured")

	return cmd
}
