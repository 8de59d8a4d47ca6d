package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	bberrors "github.com/systmms/bbenv/internal/errors"
	"github.com/systmms/bbenv/internal/logging"
	"github.com/systmms/bbenv/internal/secure"
)

// DefaultBaseURL is the public Bitbucket Cloud 2.0 API root.
const DefaultBaseURL = "https://api.bitbucket.org/2.0"

// pageLen is the fixed page size requested on the first variables page.
// Subsequent pages follow the remote's next link verbatim.
const pageLen = 20

// Client issues authenticated requests against the Bitbucket 2.0 REST API.
// Every call is synchronous, bounded by a fixed timeout, and never retried:
// a failed call surfaces a TransportError and aborts the run.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	username    string
	appPassword *secure.Buffer
	logger      *logging.Logger
}

// Option customises client construction.
type Option func(*Client)

// WithBaseURL overrides the API root. Used for tests and self-hosted mirrors.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// NewClient creates a Bitbucket API client authenticating with HTTP basic
// auth. The app password stays inside its secure buffer; it is decrypted
// per request and wiped immediately after the request is prepared.
func NewClient(username string, appPassword *secure.Buffer, logger *logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		username:    username,
		appPassword: appPassword,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Environments lists the deployment environments configured in scope.
func (c *Client) Environments(ctx context.Context, scope Scope) ([]Environment, error) {
	endpoint := fmt.Sprintf("%s/repositories/%s/%s/environments",
		c.baseURL, url.PathEscape(scope.Workspace), url.PathEscape(scope.RepoSlug))

	var page struct {
		Values []Environment `json:"values"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page, "list environments"); err != nil {
		return nil, err
	}
	c.logger.Debug("Received %d environments for %s", len(page.Values), scope)
	return page.Values, nil
}

// VariablesPage fetches one page of the variable listing for an
// environment. An empty pageURL starts the listing with the fixed page
// size; a non-empty pageURL is the next link of a previous page and is
// followed verbatim.
func (c *Client) VariablesPage(ctx context.Context, scope Scope, envUUID, pageURL string) (VariablePage, error) {
	endpoint := pageURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/repositories/%s/%s/deployments_config/environments/%s/variables?pagelen=%d",
			c.baseURL, url.PathEscape(scope.Workspace), url.PathEscape(scope.RepoSlug),
			url.PathEscape(envUUID), pageLen)
	}

	var page VariablePage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page, "list variables"); err != nil {
		return VariablePage{}, err
	}
	return page, nil
}

// variablePayload is the write body shared by create and update.
type variablePayload struct {
	Key         string             `json:"key"`
	Value       string             `json:"value"`
	Secured     bool               `json:"secured"`
	Environment environmentPointer `json:"environment"`
}

type environmentPointer struct {
	Type string `json:"type"`
	UUID string `json:"uuid"`
}

func newVariablePayload(envUUID string, v Variable) variablePayload {
	return variablePayload{
		Key:     v.Key,
		Value:   v.Value,
		Secured: v.Secured,
		Environment: environmentPointer{
			Type: "deployment_environment",
			UUID: envUUID,
		},
	}
}

// CreateVariable adds a new variable to the environment's collection.
func (c *Client) CreateVariable(ctx context.Context, scope Scope, envUUID string, v Variable) error {
	endpoint := fmt.Sprintf("%s/repositories/%s/%s/deployments_config/environments/%s/variables",
		c.baseURL, url.PathEscape(scope.Workspace), url.PathEscape(scope.RepoSlug),
		url.PathEscape(envUUID))
	return c.do(ctx, http.MethodPost, endpoint, newVariablePayload(envUUID, v), nil, "create variable")
}

// UpdateVariable rewrites the variable addressed by its remote UUID.
func (c *Client) UpdateVariable(ctx context.Context, scope Scope, envUUID, varUUID string, v Variable) error {
	endpoint := fmt.Sprintf("%s/repositories/%s/%s/deployments_config/environments/%s/variables/%s",
		c.baseURL, url.PathEscape(scope.Workspace), url.PathEscape(scope.RepoSlug),
		url.PathEscape(envUUID), url.PathEscape(varUUID))
	return c.do(ctx, http.MethodPut, endpoint, newVariablePayload(envUUID, v), nil, "update variable")
}

// do performs one authenticated request. A non-2xx status or network
// failure becomes a TransportError; a body that does not decode into out
// becomes a DecodeError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	// Correlation id for tracing a failed call in Bitbucket's audit log.
	req.Header.Set("X-Request-Id", uuid.NewString())

	if err := c.setBasicAuth(req); err != nil {
		return err
	}

	c.logger.Debug("%s %s", method, endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return bberrors.TransportError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return bberrors.TransportError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(bodyBytes)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return bberrors.DecodeError{What: op + " response", Err: err}
		}
	}
	return nil
}

func (c *Client) setBasicAuth(req *http.Request) error {
	locked, err := c.appPassword.Open()
	if err != nil {
		return fmt.Errorf("open credential buffer: %w", err)
	}
	defer locked.Destroy()
	req.SetBasicAuth(c.username, locked.String())
	return nil
}
