package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageKeepsExtensionAndRemove(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	path, err := store.Stage("Roster.XLSX", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Remove(path))
}

func TestStageRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, 4)
	require.NoError(t, err)

	_, err = store.Stage("big.csv", strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, 0)
	require.NoError(t, err)

	stale, err := store.Stage("old.csv", strings.NewReader("a"))
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	fresh, err := store.Stage("new.csv", strings.NewReader("b"))
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Base(stale)}, deleted)
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
