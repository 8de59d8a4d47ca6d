package envsync

import (
	"context"
	"errors"

	"github.com/systmms/bbenv/internal/bitbucket"
	bberrors "github.com/systmms/bbenv/internal/errors"
)

var errPaginationLoop = errors.New("remote returned the same next-page link twice; aborting to avoid an infinite pagination loop")

// FetchVariables retrieves the complete variable list for an environment,
// following next-page links until absent. Entries accumulate in arrival
// order; the remote's ordering is preserved. A page with no values ends the
// listing immediately: no variables configured is not an error.
//
// The loop terminates strictly on the absence of a next link. A remote that
// hands back the link just fetched would loop forever, so a repeated
// identical link is treated as fatal.
func (e *Engine) FetchVariables(ctx context.Context, scope bitbucket.Scope, envUUID string) ([]bitbucket.Variable, error) {
	e.logger.Debug("Fetching variables for %s, environment %s", scope, envUUID)

	var all []bitbucket.Variable
	pageURL := ""
	for {
		page, err := e.store.VariablesPage(ctx, scope, envUUID, pageURL)
		if err != nil {
			return nil, err
		}
		if len(page.Values) == 0 {
			if len(all) == 0 {
				e.logger.Info("No variables configured for %s", envUUID)
			}
			return all, nil
		}
		e.logger.Debug("Fetched page of %d variables, first key %s", len(page.Values), page.Values[0].Key)
		all = append(all, page.Values...)

		if page.Next == "" {
			break
		}
		if page.Next == pageURL {
			return nil, bberrors.TransportError{
				Op:  "list variables",
				URL: page.Next,
				Err: errPaginationLoop,
			}
		}
		pageURL = page.Next
	}

	e.logger.Info("Total variables fetched: %d", len(all))
	return all, nil
}
