package commands

import (
	"github.com/systmms/bbenv/internal/bitbucket"
	"github.com/systmms/bbenv/internal/config"
	"github.com/systmms/bbenv/internal/envsync"
	bberrors "github.com/systmms/bbenv/internal/errors"
)

// buildEngine assembles the sync engine for a command run: config file,
// scope validation, credential resolution, API client. Credentials are
// checked here, before any network call.
func buildEngine(cfg *config.Config) (*envsync.Engine, bitbucket.Scope, error) {
	if err := cfg.Load(); err != nil {
		return nil, bitbucket.Scope{}, err
	}

	scope := bitbucket.Scope{
		Workspace: cfg.ResolvedWorkspace(),
		RepoSlug:  cfg.ResolvedRepoSlug(),
	}
	if scope.Workspace == "" {
		return nil, bitbucket.Scope{}, bberrors.UserError{
			Message:    "Workspace is required",
			Suggestion: "Use --workspace <slug> or set 'workspace' in " + config.DefaultPath,
		}
	}
	if scope.RepoSlug == "" {
		return nil, bitbucket.Scope{}, bberrors.UserError{
			Message:    "Repository slug is required",
			Suggestion: "Use --repo-slug <slug> or set 'repo_slug' in " + config.DefaultPath,
		}
	}

	creds, err := cfg.LoadCredentials()
	if err != nil {
		return nil, bitbucket.Scope{}, err
	}

	var opts []bitbucket.Option
	if base := cfg.BaseURL(); base != "" {
		opts = append(opts, bitbucket.WithBaseURL(base))
	}
	client := bitbucket.NewClient(creds.Username, creds.AppPassword, cfg.Logger, opts...)

	return envsync.New(client, cfg.Logger), scope, nil
}

// requireDeployment returns the deployment environment name or a usage error.
func requireDeployment(cfg *config.Config) (string, error) {
	name := cfg.ResolvedDeployment()
	if name == "" {
		return "", bberrors.UserError{
			Message:    "Deployment environment name is required",
			Suggestion: "Use --deployment-name <name> or set 'deployment' in " + config.DefaultPath,
		}
	}
	return name, nil
}
