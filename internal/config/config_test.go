package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "overdue_limit = 10")
	assert.Contains(t, string(data), "[keys]")

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `backend = "sqlite"
db_path = "/tmp/keep-test.db"
overdue_limit = 0

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/keep-test.db", cfg.StorePath())
	assert.Equal(t, DefaultOverdueLimit, cfg.OverdueLimit)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "ctrl+s", cfg.Keys.SaveNotes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOrCreateKeepsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = "sqllite"`+"\n"), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "sqllite", cfg.Backend, "a typo must reach storage.Open and fail there")
}

func TestLoadOrCreateEmptyBackendIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = ""`+"\n"), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, cfg.DataPath, cfg.StorePath())
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = [unterminated"), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPathHonoursEnv(t *testing.T) {
	t.Setenv("KEEP_CONFIG", "/etc/keep.toml")
	assert.Equal(t, "/etc/keep.toml", ResolveConfigPath())
}
