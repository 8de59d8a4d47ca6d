package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/bbenv/cmd/bbenv/commands"
	"github.com/systmms/bbenv/internal/config"
	"github.com/systmms/bbenv/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe every credential enclave no matter how we leave.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		envFile    string
		logFile    string
		noColor    bool
		debug      bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "bbenv",
		Short: "Manage Bitbucket deployment environment variables",
		Long: `bbenv exports and imports key/value variables of a Bitbucket deployment
environment. Secured variables never leave the store in plaintext: exports
redact them and imports only touch them on explicit opt-in.

Credentials (BITBUCKET_USERNAME, BITBUCKET_APP_PASSWORD) are read from the
process environment, from ` + config.DefaultEnvFile + `, or from the OS keyring
after 'bbenv login'.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)
			if logFile != "" {
				if err := logger.WithLogFile(logFile); err != nil {
					return fmt.Errorf("cannot open log file: %w", err)
				}
			}

			// Update config with parsed values
			cfg.Path = configFile
			cfg.EnvFile = envFile
			cfg.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cfg.Logger != nil {
				cfg.Logger.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Credentials env file path (default "+config.DefaultEnvFile+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to a file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.PersistentFlags().StringVarP(&cfg.Workspace, "workspace", "w", "", "Bitbucket workspace")
	rootCmd.PersistentFlags().StringVarP(&cfg.RepoSlug, "repo-slug", "r", "", "Repository slug")
	rootCmd.PersistentFlags().StringVarP(&cfg.Deployment, "deployment-name", "d", "", "Deployment environment name")

	// Add commands
	rootCmd.AddCommand(
		commands.NewExportCommand(cfg),
		commands.NewSecretKeysCommand(cfg),
		commands.NewImportCommand(cfg),
		commands.NewEnvironmentsCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
