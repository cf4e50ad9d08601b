package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/models"
)

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".m4a": true, ".aac": true, ".opus": true,
}

// IsAudio reports whether path has a supported audio extension.
func IsAudio(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to library directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("library: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute library directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the library root and rejects
// any result that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("library: absolute paths not allowed: %s: %w", rel, apperr.ErrInvalidInput)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("library: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("library: path escapes root: %s: %w", rel, apperr.ErrInvalidInput)
	}
	return abs, nil
}

// List walks dir and returns metadata for every audio file.
func (f *FS) List(dir string) ([]models.AudioMetadata, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.AudioMetadata
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsAudio(d.Name()) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.AudioMetadata{
			Path:      filepath.ToSlash(rel),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	return out, nil
}

// Resolve returns the absolute path of an existing audio file.
func (f *FS) Resolve(path string) (string, error) {
	if !IsAudio(path) {
		return "", fmt.Errorf("library: %s: %w", path, apperr.ErrUnsupported)
	}
	abs, err := f.safePath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("library: %s: %w", path, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("library: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("library: %s is a directory: %w", path, apperr.ErrInvalidInput)
	}
	return abs, nil
}

// Open returns a reader for an audio file.
func (f *FS) Open(path string) (io.ReadCloser, error) {
	abs, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}
	return file, nil
}

// Write atomically creates path from r: tmp file → fsync → link. The link
// fails if path already exists, so concurrent writers of one name cannot
// overwrite each other.
func (f *FS) Write(path string, r io.Reader) (int64, error) {
	if !IsAudio(path) {
		return 0, fmt.Errorf("library: %s: %w", path, apperr.ErrUnsupported)
	}
	abs, err := f.safePath(path)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("library: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wavemark-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("library: create temp: %w", err)
	}
	tmpName := tmp.Name()
	// The temp name is always dropped; on success the data lives on at abs.
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("library: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("library: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("library: close temp: %w", err)
	}
	if err := os.Link(tmpName, abs); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("library: %s: %w", path, apperr.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("library: link: %w", err)
	}
	return n, nil
}
