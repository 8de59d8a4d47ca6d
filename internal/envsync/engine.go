// Package envsync implements the synchronization engine between a local
// JSON variable file and a Bitbucket deployment environment: environment
// resolution, de-paginated variable retrieval, the three export
// projections, and create-or-update import reconciliation.
package envsync

import (
	"context"

	"github.com/systmms/bbenv/internal/bitbucket"
	bberrors "github.com/systmms/bbenv/internal/errors"
	"github.com/systmms/bbenv/internal/logging"
)

// Store is the slice of the Bitbucket API the engine depends on. The
// concrete implementation is bitbucket.Client; tests substitute a fake.
type Store interface {
	Environments(ctx context.Context, scope bitbucket.Scope) ([]bitbucket.Environment, error)
	VariablesPage(ctx context.Context, scope bitbucket.Scope, envUUID, pageURL string) (bitbucket.VariablePage, error)
	CreateVariable(ctx context.Context, scope bitbucket.Scope, envUUID string, v bitbucket.Variable) error
	UpdateVariable(ctx context.Context, scope bitbucket.Scope, envUUID, varUUID string, v bitbucket.Variable) error
}

// Engine drives all four operations against a single repository scope.
type Engine struct {
	store  Store
	logger *logging.Logger
}

// New creates an engine over the given variable store.
func New(store Store, logger *logging.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Environments lists the deployment environments configured in scope.
func (e *Engine) Environments(ctx context.Context, scope bitbucket.Scope) ([]bitbucket.Environment, error) {
	return e.store.Environments(ctx, scope)
}

// ResolveEnvironment maps a human-readable deployment name to the store's
// opaque environment UUID. Names are assumed unique; the first match wins.
func (e *Engine) ResolveEnvironment(ctx context.Context, scope bitbucket.Scope, deploymentName string) (string, error) {
	e.logger.Debug("Fetching environments for %s", scope)
	envs, err := e.store.Environments(ctx, scope)
	if err != nil {
		return "", err
	}
	for _, env := range envs {
		e.logger.Debug("Checking environment: %s", env.Name)
		if env.Name == deploymentName {
			e.logger.Info("Found environment '%s' with UUID %s", deploymentName, env.UUID)
			return env.UUID, nil
		}
	}
	return "", bberrors.NotFoundError{Resource: "deployment environment", Name: deploymentName}
}
