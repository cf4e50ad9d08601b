package library

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wavemark/internal/apperr"
)

func tempLibrary(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestWriteAndOpen(t *testing.T) {
	s := tempLibrary(t)
	n, err := s.Write("talk.mp3", strings.NewReader("ID3fake"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	rc, err := s.Open("talk.mp3")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "ID3fake", string(got))
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempLibrary(t)
	_, err := s.Write("a/b/c.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)

	abs, err := s.Resolve("a/b/c.wav")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "a", "b", "c.wav"), abs)
}

func TestWriteRejectsNonAudio(t *testing.T) {
	s := tempLibrary(t)
	_, err := s.Write("notes.md", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrUnsupported)
}

func TestWriteNeverOverwrites(t *testing.T) {
	s := tempLibrary(t)
	_, err := s.Write("take.wav", strings.NewReader("RIFF first"))
	require.NoError(t, err)

	_, err = s.Write("take.wav", strings.NewReader("RIFF second"))
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)

	got, err := os.ReadFile(filepath.Join(s.Root(), "take.wav"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF first", string(got))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestWriteConcurrentSameName(t *testing.T) {
	s := tempLibrary(t)

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     []string
		existed int
	)
	for i := range writers {
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			_, err := s.Write("race.mp3", strings.NewReader(body))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won = append(won, body)
			case assert.ErrorIs(t, err, apperr.ErrAlreadyExists):
				existed++
			}
		}(strings.Repeat("x", i+1))
	}
	wg.Wait()

	require.Len(t, won, 1)
	assert.Equal(t, writers-1, existed)
	got, err := os.ReadFile(filepath.Join(s.Root(), "race.mp3"))
	require.NoError(t, err)
	assert.Equal(t, won[0], string(got))
}

func TestList(t *testing.T) {
	s := tempLibrary(t)
	_, _ = s.Write("one.mp3", strings.NewReader("1"))
	_, _ = s.Write("sub/two.FLAC", strings.NewReader("22"))
	_ = os.WriteFile(filepath.Join(s.Root(), "readme.txt"), []byte("x"), 0o644)

	metas, err := s.List("")
	require.NoError(t, err)
	require.Len(t, metas, 2)

	paths := map[string]int64{}
	for _, m := range metas {
		paths[m.Path] = m.Size
	}
	assert.Equal(t, map[string]int64{"one.mp3": 1, "sub/two.FLAC": 2}, paths)
}

func TestResolveNotFound(t *testing.T) {
	s := tempLibrary(t)
	_, err := s.Resolve("missing.mp3")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPathTraversal(t *testing.T) {
	s := tempLibrary(t)
	for _, p := range []string{"../escape.mp3", "../../etc/x.wav", "/abs/path.mp3"} {
		_, err := s.Write(p, strings.NewReader("x"))
		assert.Error(t, err, "Write(%q)", p)
		_, err = s.Open(p)
		assert.Error(t, err, "Open(%q)", p)
	}
}

func TestNewFSRequiresDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.mp3")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	_, err := NewFS(f)
	assert.Error(t, err, "non-directory root")
	_, err = NewFS(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err, "missing root")
}
