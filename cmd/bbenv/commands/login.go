package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/systmms/bbenv/internal/config"
	bberrors "github.com/systmms/bbenv/internal/errors"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Bitbucket credentials in the OS keyring",
		Long: `Store the Bitbucket username and app password in the operating system
keyring. Later runs fall back to the keyring when the credentials are not
present in the environment or in ` + config.DefaultEnvFile + `.

The app password is prompted without echo. Create one under Bitbucket
personal settings with the 'Pipelines: variables' read/write scopes.

Examples:
  bbenv login --username alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("Bitbucket username: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if username == "" {
				return bberrors.UserError{
					Message:    "Username is required",
					Suggestion: "Use --username <name> or type it at the prompt",
				}
			}

			fmt.Print("App password (input hidden): ")
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read app password: %w", err)
			}
			if len(password) == 0 {
				return bberrors.UserError{
					Message:    "App password is required",
					Suggestion: "Create one under Bitbucket personal settings > App passwords",
				}
			}

			if err := config.StoreCredentials(username, string(password)); err != nil {
				return bberrors.UserError{
					Message:    "Failed to store credentials in the OS keyring",
					Suggestion: "Ensure a keyring service is available (Secret Service on Linux, Keychain on macOS)",
					Err:        err,
				}
			}

			cfg.Logger.Info("Credentials for '%s' stored in the OS keyring", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Bitbucket username")

	return cmd
}
