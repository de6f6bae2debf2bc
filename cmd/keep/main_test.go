package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keep/internal/task"
)

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("backend = %q\ndata_path = %q\ndb_path = %q\n",
		backend, filepath.Join(dir, "tasks.json"), filepath.Join(dir, "keep.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestAddThenList(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfgPath := writeConfig(t, backend)

			_, err := execute(t, cfgPath, "add", "Write", "report", "--date", "2024-03-05", "--start", "09:30")
			require.NoError(t, err)
			_, err = execute(t, cfgPath, "add", "Standup", "--date", "2024-03-05", "--start", "08:00", "--end", "08:15")
			require.NoError(t, err)
			_, err = execute(t, cfgPath, "add", "Other day", "--date", "2024-03-06")
			require.NoError(t, err)

			out, err := execute(t, cfgPath, "list", "--date", "2024-03-05")
			require.NoError(t, err)
			assert.Contains(t, out, "2 total, 2 pending, 0 done")
			assert.NotContains(t, out, "Other day")
			assert.Less(t, strings.Index(out, "Standup"), strings.Index(out, "Write report"))
			assert.Contains(t, out, "08:00-08:15")
		})
	}
}

func TestAddRejectsBadDate(t *testing.T) {
	cfgPath := writeConfig(t, "json")
	_, err := execute(t, cfgPath, "add", "x", "--date", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestAddRejectsBlankContent(t *testing.T) {
	cfgPath := writeConfig(t, "json")
	_, err := execute(t, cfgPath, "add", "   ")
	assert.ErrorIs(t, err, task.ErrEmptyContent)
}

func TestDoneTogglesByPrefix(t *testing.T) {
	cfgPath := writeConfig(t, "json")
	out, err := execute(t, cfgPath, "add", "Ship it", "--date", "2024-03-05")
	require.NoError(t, err)
	prefix := strings.Fields(out)[0]
	require.Len(t, prefix, shortIDLen)

	out, err = execute(t, cfgPath, "done", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "[x]")

	out, err = execute(t, cfgPath, "list", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total, 0 pending, 1 done")

	_, err = execute(t, cfgPath, "done", "zzzz")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestOverdue(t *testing.T) {
	cfgPath := writeConfig(t, "json")
	out, err := execute(t, cfgPath, "overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "All caught up!")

	past := civil.DateOf(time.Now()).AddDays(-3).String()
	for _, c := range []string{"one", "two", "three"} {
		_, err := execute(t, cfgPath, "add", c, "--date", past)
		require.NoError(t, err)
	}
	out, err = execute(t, cfgPath, "overdue", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Overdue (3)")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.NotContains(t, out, "three")
}

func TestNotesPrintsStoredNotes(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(data, []byte(`{"tasks":[],"notes":"remember milk"}`), 0o644))
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("data_path = %q\n", data)), 0o644))

	out, err := execute(t, cfgPath, "notes")
	require.NoError(t, err)
	assert.Equal(t, "remember milk\n", out)
}

func TestUnknownBackendFails(t *testing.T) {
	cfgPath := writeConfig(t, "sqllite")
	_, err := execute(t, cfgPath, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage backend "sqllite"`)
}

func TestFindByPrefix(t *testing.T) {
	s := &task.Store{Tasks: []task.Task{
		{ID: "abc123", Content: "a"},
		{ID: "abd456", Content: "b"},
	}}

	idx, err := findByPrefix(s, "abd")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = findByPrefix(s, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = findByPrefix(s, "ab")
	assert.ErrorIs(t, err, errAmbiguous)

	_, err = findByPrefix(s, "")
	assert.ErrorIs(t, err, errNoMatch)
}
