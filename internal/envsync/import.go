package envsync

import (
	"context"
	"encoding/json"
	"os"

	"github.com/systmms/bbenv/internal/bitbucket"
	bberrors "github.com/systmms/bbenv/internal/errors"
)

// Import reads a local variable file and reconciles each entry against the
// named deployment environment. The remote list is fetched once up front
// and used as the match set for the whole run; concurrent external
// mutation during a run is not detected.
//
// Entries are processed in file order. When includeSecrets is false, local
// entries flagged secured are skipped with a log line: secrets only ever
// reach the remote store on explicit opt-in. There is no rollback; the
// first reconciliation error aborts the run and earlier writes stand.
func (e *Engine) Import(ctx context.Context, scope bitbucket.Scope, deploymentName, inputPath string, includeSecrets bool) error {
	e.logger.Info("Importing variables from %s", inputPath)

	imported, err := ReadVariablesFile(inputPath)
	if err != nil {
		return err
	}
	e.logger.Debug("Loaded %d variables from %s", len(imported), inputPath)

	envUUID, err := e.ResolveEnvironment(ctx, scope, deploymentName)
	if err != nil {
		return err
	}
	existing, err := e.FetchVariables(ctx, scope, envUUID)
	if err != nil {
		return err
	}

	for _, v := range imported {
		if !includeSecrets && v.Secured {
			e.logger.Info("Skipping secured variable '%s'", v.Key)
			continue
		}
		if err := e.reconcile(ctx, scope, envUUID, existing, v); err != nil {
			return err
		}
	}

	e.logger.Info("Variable import completed")
	return nil
}

// reconcile upserts one candidate variable: a remote entry with the same
// key is updated in place via its UUID, otherwise the candidate is created.
// Keys are assumed unique per environment; the first match wins. No
// deletion transition exists.
func (e *Engine) reconcile(ctx context.Context, scope bitbucket.Scope, envUUID string, existing []bitbucket.Variable, candidate bitbucket.Variable) error {
	for _, remote := range existing {
		if remote.Key != candidate.Key {
			continue
		}
		e.logger.Debug("Variable '%s' exists, updating", candidate.Key)
		if err := e.store.UpdateVariable(ctx, scope, envUUID, remote.UUID, candidate); err != nil {
			return err
		}
		e.logger.Info("Updated variable '%s'", candidate.Key)
		return nil
	}

	e.logger.Debug("Variable '%s' does not exist, creating", candidate.Key)
	if err := e.store.CreateVariable(ctx, scope, envUUID, candidate); err != nil {
		return err
	}
	e.logger.Info("Created variable '%s'", candidate.Key)
	return nil
}

// ReadVariablesFile loads and validates a local variable file: a JSON
// array of {key,value,secured} objects. A missing secured field decodes as
// false (not secured). Entries never carry remote UUIDs.
func ReadVariablesFile(path string) ([]bitbucket.Variable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bberrors.FileError{Path: path, Op: "read", Err: err}
	}
	if err := ValidateVariablesDocument(data); err != nil {
		return nil, err
	}
	var variables []bitbucket.Variable
	if err := json.Unmarshal(data, &variables); err != nil {
		return nil, bberrors.DecodeError{What: "import file " + path, Err: err}
	}
	return variables, nil
}
