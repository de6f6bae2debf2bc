package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutPathIsNop(t *testing.T) {
	log, err := New("", "debug")
	require.NoError(t, err)
	log.Info("dropped")
	assert.False(t, log.Core().Enabled(-1))
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keep.log")

	log, err := New(path, "info")
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("saved store")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"saved store"`)
	assert.Contains(t, string(data), `"ts":`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "keep.log"), "loud")
	assert.Error(t, err)
}
