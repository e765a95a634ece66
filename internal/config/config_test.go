package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CAVEMAP_HOME", dir)
	// Keep ambient overrides out of the tests.
	for _, key := range []string{
		"CAVEMAP_SERVER_URL", "CAVEMAP_CSRF_COOKIE", "CAVEMAP_CSRF_TOKEN",
		"CAVEMAP_PROJECT", "CAVEMAP_NETWORK", "CAVEMAP_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	withConfigHome(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, "csrftoken", cfg.CSRFCookie)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadConfig_FileThenEnvPrecedence(t *testing.T) {
	dir := withConfigHome(t)
	data := []byte("server_url: http://from-file:9000\ndefault_project: p-file\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:9000", cfg.ServerURL)
	assert.Equal(t, "p-file", cfg.DefaultProject)

	t.Setenv("CAVEMAP_SERVER_URL", "http://from-env:9001")
	t.Setenv("CAVEMAP_TIMEOUT", "45s")

	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9001", cfg.ServerURL)
	assert.Equal(t, "p-file", cfg.DefaultProject)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoadConfig_RejectsBadTimeout(t *testing.T) {
	withConfigHome(t)
	t.Setenv("CAVEMAP_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.ServerURL = "not a url"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.ServerURL = "/relative/path"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.CSRFCookie = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Timeout = 0
	assert.Error(t, bad.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	withConfigHome(t)

	cfg := DefaultConfig()
	cfg.ServerURL = "http://saved:8080"
	cfg.DefaultProject = "p9"
	require.NoError(t, cfg.Save())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://saved:8080", loaded.ServerURL)
	assert.Equal(t, "p9", loaded.DefaultProject)
}
