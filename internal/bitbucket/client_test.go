package bitbucket_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/bbenv/internal/bitbucket"
	bberrors "github.com/systmms/bbenv/internal/errors"
	"github.com/systmms/bbenv/internal/logging"
	"github.com/systmms/bbenv/internal/secure"
)

var scope = bitbucket.Scope{Workspace: "ws", RepoSlug: "repo"}

func newTestClient(t *testing.T, handler http.Handler) *bitbucket.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logging.New(true, true)
	logger.SetOutput(io.Discard)
	return bitbucket.NewClient("alice", secure.NewBufferFromString("app-pass"), logger,
		bitbucket.WithBaseURL(server.URL))
}

func TestEnvironments(t *testing.T) {
	var gotPath, gotUser, gotPass string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"values":[{"name":"prod","uuid":"{p1}"},{"name":"staging","uuid":"{s1}"}]}`))
	}))

	envs, err := client.Environments(context.Background(), scope)
	require.NoError(t, err)

	assert.Equal(t, "/repositories/ws/repo/environments", gotPath)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "app-pass", gotPass)
	require.Len(t, envs, 2)
	assert.Equal(t, bitbucket.Environment{Name: "staging", UUID: "{s1}"}, envs[1])
}

func TestVariablesPageFirstAndNext(t *testing.T) {
	var gotQueries []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueries = append(gotQueries, r.URL.RequestURI())
		switch r.URL.Query().Get("page") {
		case "2":
			_, _ = w.Write([]byte(`{"values":[{"key":"B","value":"2","secured":true,"uuid":"{u2}"}]}`))
		default:
			// First page advertises a next link back at this server.
			next := "http://" + r.Host + r.URL.Path + "?page=2"
			body, _ := json.Marshal(map[string]interface{}{
				"values": []bitbucket.Variable{{Key: "A", Value: "1", UUID: "{u1}"}},
				"next":   next,
			})
			_, _ = w.Write(body)
		}
	}))

	first, err := client.VariablesPage(context.Background(), scope, "{s1}", "")
	require.NoError(t, err)
	require.Len(t, first.Values, 1)
	assert.Equal(t, "A", first.Values[0].Key)
	require.NotEmpty(t, first.Next)

	second, err := client.VariablesPage(context.Background(), scope, "{s1}", first.Next)
	require.NoError(t, err)
	require.Len(t, second.Values, 1)
	assert.Equal(t, "B", second.Values[0].Key)
	assert.Empty(t, second.Next)

	require.Len(t, gotQueries, 2)
	assert.Equal(t, "/repositories/ws/repo/deployments_config/environments/%7Bs1%7D/variables?pagelen=20", gotQueries[0])
	assert.Contains(t, gotQueries[1], "page=2")
}

func TestCreateVariablePayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.CreateVariable(context.Background(), scope, "{s1}",
		bitbucket.Variable{Key: "NEW", Value: "v", Secured: true})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	// r.URL.Path is the decoded form; braces reappear.
	assert.Equal(t, "/repositories/ws/repo/deployments_config/environments/{s1}/variables", gotPath)
	assert.Equal(t, map[string]interface{}{
		"key":     "NEW",
		"value":   "v",
		"secured": true,
		"environment": map[string]interface{}{
			"type": "deployment_environment",
			"uuid": "{s1}",
		},
	}, gotBody)
}

func TestUpdateVariableAddressesUUID(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateVariable(context.Background(), scope, "{s1}", "{u1}",
		bitbucket.Variable{Key: "A", Value: "new", Secured: false})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/repositories/ws/repo/deployments_config/environments/{s1}/variables/{u1}", gotPath)
}

func TestNon2xxBecomesTransportError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid credentials"}}`))
	}))

	_, err := client.Environments(context.Background(), scope)
	require.Error(t, err)

	var transport bberrors.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.StatusUnauthorized, transport.StatusCode)
	assert.Contains(t, transport.Body, "invalid credentials")
}

func TestMalformedBodyBecomesDecodeError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))

	_, err := client.Environments(context.Background(), scope)
	require.Error(t, err)

	var decode bberrors.DecodeError
	assert.ErrorAs(t, err, &decode)
}

func TestNetworkFailureBecomesTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	logger := logging.New(false, true)
	logger.SetOutput(io.Discard)
	client := bitbucket.NewClient("alice", secure.NewBufferFromString("app-pass"), logger,
		bitbucket.WithBaseURL(server.URL))

	_, err := client.Environments(context.Background(), scope)
	require.Error(t, err)

	var transport bberrors.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Zero(t, transport.StatusCode)
	assert.Error(t, transport.Err)
}
