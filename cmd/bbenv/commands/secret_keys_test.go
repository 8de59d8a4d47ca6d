package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretKeysCommand(t *testing.T) {
	server := newFakeAPI(t, []map[string]interface{}{
		{"key": "DB_HOST", "value": "db.internal", "secured": false, "uuid": "{u1}"},
		{"key": "DB_PASSWORD", "value": "", "secured": true, "uuid": "{u2}"},
		{"key": "API_TOKEN", "value": "", "secured": true, "uuid": "{u3}"},
	})
	cfg := testConfig(t, server.URL)
	outPath := filepath.Join(t.TempDir(), "secret-keys.json")

	cmd := NewSecretKeysCommand(cfg)
	cmd.SetArgs([]string{"--out", outPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"DB_PASSWORD", "API_TOKEN"}, got)
}

func TestSecretKeysCommand_NoVariablesWritesNoFile(t *testing.T) {
	server := newFakeAPI(t, nil)
	cfg := testConfig(t, server.URL)
	outPath := filepath.Join(t.TempDir(), "secret-keys.json")

	cmd := NewSecretKeysCommand(cfg)
	cmd.SetArgs([]string{"--out", outPath})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}
