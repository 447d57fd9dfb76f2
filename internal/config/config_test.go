package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PLEX_URL", "PLEX_TOKEN", "PLEX_TIMEOUT", "CACHE_TTL", "PORT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Plex.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingPlexURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "plex:\n  url: http://file:32400\n  token: from-file\ncache:\n  ttl: 90s\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("PLEX_URL", "http://plex.local:32400///")
	t.Setenv("PORT", "8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://plex.local:32400", cfg.Plex.URL)
	assert.Equal(t, "from-file", cfg.Plex.Token)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_MissingToken(t *testing.T) {
	cfg := Default()
	cfg.Plex.URL = "http://plex:32400"

	assert.ErrorIs(t, cfg.Validate(), ErrMissingPlexToken)
}
