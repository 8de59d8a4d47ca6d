package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAPI captures variable writes issued by the import command.
type recordingAPI struct {
	mu      sync.Mutex
	creates []string
	updates []string
}

func (a *recordingAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repositories/ws/repo/environments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"values": []map[string]string{{"name": "staging", "uuid": "{s1}"}},
		})
	})
	mux.HandleFunc("/repositories/ws/repo/deployments_config/environments/{s1}/variables",
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"values": []map[string]interface{}{
						{"key": "EXISTING", "value": "old", "secured": false, "uuid": "{u1}"},
					},
				})
			case http.MethodPost:
				var payload struct {
					Key string `json:"key"`
				}
				_ = json.NewDecoder(r.Body).Decode(&payload)
				a.mu.Lock()
				a.creates = append(a.creates, payload.Key)
				a.mu.Unlock()
				w.WriteHeader(http.StatusCreated)
			}
		})
	mux.HandleFunc("PUT /repositories/ws/repo/deployments_config/environments/{s1}/variables/{varUUID}",
		func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Key string `json:"key"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			a.mu.Lock()
			a.updates = append(a.updates, payload.Key+"@"+r.PathValue("varUUID"))
			a.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeImportFile(t *testing.T, entries []map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestImportCommand_CreateAndUpdate(t *testing.T) {
	api := &recordingAPI{}
	cfg := testConfig(t, api.server(t).URL)
	path := writeImportFile(t, []map[string]interface{}{
		{"key": "EXISTING", "value": "new", "secured": false},
		{"key": "FRESH", "value": "v", "secured": false},
	})

	cmd := NewImportCommand(cfg)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, []string{"EXISTING@{u1}"}, api.updates)
	assert.Equal(t, []string{"FRESH"}, api.creates)
}

func TestImportCommand_SkipsSecrets(t *testing.T) {
	api := &recordingAPI{}
	cfg := testConfig(t, api.server(t).URL)
	path := writeImportFile(t, []map[string]interface{}{
		{"key": "SECRET", "value": "hunter2", "secured": true},
	})

	cmd := NewImportCommand(cfg)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, api.creates)
	assert.Empty(t, api.updates)
}

func TestImportCommand_IncludeSecrets(t *testing.T) {
	api := &recordingAPI{}
	cfg := testConfig(t, api.server(t).URL)
	path := writeImportFile(t, []map[string]interface{}{
		{"key": "SECRET", "value": "hunter2", "secured": true},
	})

	cmd := NewImportCommand(cfg)
	cmd.SetArgs([]string{"--include-secrets", path})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, []string{"SECRET"}, api.creates)
}

func TestImportCommand_MissingFile(t *testing.T) {
	api := &recordingAPI{}
	cfg := testConfig(t, api.server(t).URL)

	cmd := NewImportCommand(cfg)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.json")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot read file")
	assert.Empty(t, api.creates)
}
