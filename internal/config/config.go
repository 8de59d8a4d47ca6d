package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	bberrors "github.com/systmms/bbenv/internal/errors"
	"github.com/systmms/bbenv/internal/logging"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "bbenv.yaml"

// DefaultEnvFile is the credentials env file consulted by default.
const DefaultEnvFile = "bitbucket.env"

// Config holds the runtime configuration assembled from the optional
// bbenv.yaml file and command-line flags. Flags win over file values.
type Config struct {
	Path    string
	EnvFile string
	Logger  *logging.Logger

	// Flag-provided values; empty means "take from the file".
	Workspace  string
	RepoSlug   string
	Deployment string

	Definition *Definition
}

// Definition represents the bbenv.yaml structure.
type Definition struct {
	Workspace       string `yaml:"workspace,omitempty"`
	RepoSlug        string `yaml:"repo_slug,omitempty"`
	Deployment      string `yaml:"deployment,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

// Load reads the config file if present. A missing file at the default
// path is fine (everything can come from flags); a missing file named
// explicitly with --config is an error.
func (c *Config) Load() error {
	if c.Definition != nil {
		return nil
	}
	c.Definition = &Definition{}

	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && (c.Path == "" || c.Path == DefaultPath) {
			return nil
		}
		return bberrors.FileError{Path: path, Op: "read", Err: err}
	}

	if err := yaml.Unmarshal(data, c.Definition); err != nil {
		return bberrors.UserError{
			Message:    fmt.Sprintf("Invalid config file '%s'", path),
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}
	return nil
}

// ResolvedWorkspace returns the workspace slug, flags first.
func (c *Config) ResolvedWorkspace() string {
	if c.Workspace != "" {
		return c.Workspace
	}
	if c.Definition != nil {
		return c.Definition.Workspace
	}
	return ""
}

// ResolvedRepoSlug returns the repository slug, flags first.
func (c *Config) ResolvedRepoSlug() string {
	if c.RepoSlug != "" {
		return c.RepoSlug
	}
	if c.Definition != nil {
		return c.Definition.RepoSlug
	}
	return ""
}

// ResolvedDeployment returns the deployment environment name, flags first.
func (c *Config) ResolvedDeployment() string {
	if c.Deployment != "" {
		return c.Deployment
	}
	if c.Definition != nil {
		return c.Definition.Deployment
	}
	return ""
}

// BaseURL returns the configured API root, empty for the public default.
func (c *Config) BaseURL() string {
	if c.Definition != nil {
		return c.Definition.BaseURL
	}
	return ""
}

// CredentialsFile returns the env file holding the credentials.
func (c *Config) CredentialsFile() string {
	if c.EnvFile != "" {
		return c.EnvFile
	}
	if c.Definition != nil && c.Definition.CredentialsFile != "" {
		return c.Definition.CredentialsFile
	}
	return DefaultEnvFile
}
