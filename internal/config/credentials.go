package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	bberrors "github.com/systmms/bbenv/internal/errors"
	"github.com/systmms/bbenv/internal/secure"
)

// Credential sources, in resolution order: the process environment, the
// credentials env file, then the OS keyring (populated by 'bbenv login').
const (
	EnvUsername    = "BITBUCKET_USERNAME"
	EnvAppPassword = "BITBUCKET_APP_PASSWORD"

	// KeyringService is the service name credentials are stored under.
	KeyringService = "bbenv"

	keyringUsernameAccount = "username"
	keyringPasswordAccount = "app_password"
)

// Credentials carries the Bitbucket username and app password. The app
// password lives in a secure buffer for the life of the run; callers must
// memguard.Purge() at process exit.
type Credentials struct {
	Username    string
	AppPassword *secure.Buffer
}

// LoadCredentials resolves the username and app password, checked once at
// startup before any network call. Absence of either is terminal.
func (c *Config) LoadCredentials() (*Credentials, error) {
	username := os.Getenv(EnvUsername)
	password := os.Getenv(EnvAppPassword)

	if username == "" || password == "" {
		envFile := c.CredentialsFile()
		if values, err := godotenv.Read(envFile); err == nil {
			c.Logger.Debug("Loaded credentials file %s", envFile)
			if username == "" {
				username = values[EnvUsername]
			}
			if password == "" {
				password = values[EnvAppPassword]
			}
		} else {
			c.Logger.Debug("No credentials file %s: %v", envFile, err)
		}
	}

	if username == "" || password == "" {
		if u, err := keyring.Get(KeyringService, keyringUsernameAccount); err == nil && username == "" {
			username = u
		}
		if p, err := keyring.Get(KeyringService, keyringPasswordAccount); err == nil && password == "" {
			password = p
			c.Logger.Debug("Loaded app password from OS keyring")
		}
	}

	var missing []string
	if username == "" {
		missing = append(missing, EnvUsername)
	}
	if password == "" {
		missing = append(missing, EnvAppPassword)
	}
	if len(missing) > 0 {
		return nil, bberrors.MissingCredentialsError{Missing: missing}
	}

	return &Credentials{
		Username:    username,
		AppPassword: secure.NewBufferFromString(password),
	}, nil
}

// StoreCredentials writes the username and app password into the OS
// keyring for later runs.
func StoreCredentials(username, appPassword string) error {
	if err := keyring.Set(KeyringService, keyringUsernameAccount, username); err != nil {
		return err
	}
	return keyring.Set(KeyringService, keyringPasswordAccount, appPassword)
}
