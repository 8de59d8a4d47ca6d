package envsync

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/systmms/bbenv/internal/bitbucket"
	bberrors "github.com/systmms/bbenv/internal/errors"
)

// ExportPlain writes the non-secret variables of the named deployment
// environment to outPath as a JSON array of {key,value,secured} objects.
// Secured entries are skipped with a note and never written.
func (e *Engine) ExportPlain(ctx context.Context, scope bitbucket.Scope, deploymentName, outPath string) error {
	e.logger.Info("Exporting non-secured variables to %s", outPath)
	variables, err := e.fetchForExport(ctx, scope, deploymentName)
	if err != nil || variables == nil {
		return err
	}

	exported := make([]bitbucket.Variable, 0, len(variables))
	for _, v := range variables {
		if v.Secured {
			e.logger.Info("Secured variable '%s' will not be exported. Use 'bbenv secret-keys' for a list of secure keys.", v.Key)
			continue
		}
		exported = append(exported, bitbucket.Variable{Key: v.Key, Value: v.Value, Secured: false})
	}

	if err := writeJSON(outPath, exported); err != nil {
		return err
	}
	e.logger.Info("Non-secured variables (%d) exported to %s", len(exported), outPath)
	return nil
}

// ExportAll writes every variable of the named deployment environment to
// outPath. Secured values are redacted to the empty string; only their keys
// and the secured flag survive.
func (e *Engine) ExportAll(ctx context.Context, scope bitbucket.Scope, deploymentName, outPath string) error {
	e.logger.Info("Exporting all variables to %s", outPath)
	variables, err := e.fetchForExport(ctx, scope, deploymentName)
	if err != nil || variables == nil {
		return err
	}

	exported := make([]bitbucket.Variable, 0, len(variables))
	for _, v := range variables {
		value := v.Value
		if v.Secured {
			value = ""
		}
		exported = append(exported, bitbucket.Variable{Key: v.Key, Value: value, Secured: v.Secured})
	}

	if err := writeJSON(outPath, exported); err != nil {
		return err
	}
	e.logger.Info("All variables for %s exported to %s", deploymentName, outPath)
	return nil
}

// ExportSecretKeys writes the ordered list of secured variable keys to
// outPath as a JSON array of strings. No values appear in the output.
func (e *Engine) ExportSecretKeys(ctx context.Context, scope bitbucket.Scope, deploymentName, outPath string) error {
	e.logger.Info("Exporting secured variable keys to %s", outPath)
	variables, err := e.fetchForExport(ctx, scope, deploymentName)
	if err != nil || variables == nil {
		return err
	}

	secretKeys := make([]string, 0)
	for _, v := range variables {
		if v.Secured {
			secretKeys = append(secretKeys, v.Key)
		}
	}

	if err := writeJSON(outPath, secretKeys); err != nil {
		return err
	}
	e.logger.Info("Secured variable keys (%d) exported to %s", len(secretKeys), outPath)
	return nil
}

// fetchForExport resolves the environment and fetches its variables. A nil
// slice with nil error means nothing is configured; the export is a no-op
// and no output file is created or truncated.
func (e *Engine) fetchForExport(ctx context.Context, scope bitbucket.Scope, deploymentName string) ([]bitbucket.Variable, error) {
	envUUID, err := e.ResolveEnvironment(ctx, scope, deploymentName)
	if err != nil {
		return nil, err
	}
	variables, err := e.FetchVariables(ctx, scope, envUUID)
	if err != nil {
		return nil, err
	}
	if len(variables) == 0 {
		return nil, nil
	}
	return variables, nil
}

// writeJSON serializes v fully in memory, then writes the file in a single
// operation so a failure never leaves a partial file behind.
func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return bberrors.FileError{Path: path, Op: "write", Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return bberrors.FileError{Path: path, Op: "write", Err: err}
	}
	return nil
}
