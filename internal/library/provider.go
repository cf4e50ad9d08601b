// Package library defines the audio library directory abstraction.
package library

import (
	"io"

	"github.com/starford/wavemark/internal/models"
)

// Provider is the interface for audio library file operations. All paths
// are relative to the library root.
type Provider interface {
	// List returns metadata for every supported audio file under dir.
	List(dir string) ([]models.AudioMetadata, error)
	// Open returns a reader for the file at path.
	Open(path string) (io.ReadCloser, error)
	// Resolve returns the absolute path of a library file, for external decoders.
	Resolve(path string) (string, error)
	// Write atomically stores the contents of r at a new path. It fails with
	// apperr.ErrAlreadyExists when path is taken and never overwrites.
	Write(path string, r io.Reader) (int64, error)
	// Root returns the absolute library directory.
	Root() string
}
