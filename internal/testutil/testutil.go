// Package testutil provides shared test helpers for setting up libraries and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/wavemark/internal/index"
	"github.com/starford/wavemark/internal/library"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "wavemark-test-*.db")
	require.NoError(t, err)
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a library.FS.
func TestLibrary(t *testing.T) (string, *library.FS) {
	t.Helper()
	dir := t.TempDir()
	lib, err := library.NewFS(dir)
	require.NoError(t, err)
	return dir, lib
}

// WriteAudio writes raw bytes as an audio file under the library dir.
// The content does not need to be real audio when a fake decoder is used.
func WriteAudio(t *testing.T, dir, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}
