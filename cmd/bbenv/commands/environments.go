package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/bbenv/internal/config"
)

func NewEnvironmentsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "environments",
		Short: "List the deployment environments of a repository",
		Long: `List every deployment environment configured for the repository, with
the UUID the store uses to address it.

Examples:
  bbenv environments -w my-team -r my-repo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scope, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			envs, err := engine.Environments(cmd.Context(), scope)
			if err != nil {
				return err
			}
			if len(envs) == 0 {
				cfg.Logger.Info("No deployment environments configured for %s", scope)
				return nil
			}
			for _, env := range envs {
				fmt.Printf("%-30s %s\n", env.Name, env.UUID)
			}
			return nil
		},
	}

	return cmd
}
