package export

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard modes.
const (
	ClipboardSystem = "system"
	ClipboardMemory = "memory"
)

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// MemoryClipboard keeps the last written text; used headless and in tests.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// Text returns the last written text.
func (m *MemoryClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// NewClipboard picks an implementation for mode. The system clipboard
// falls back to memory when no clipboard utility is available.
func NewClipboard(mode string) Clipboard {
	if mode == ClipboardSystem && !clipboard.Unsupported {
		return SystemClipboard{}
	}
	return &MemoryClipboard{}
}
