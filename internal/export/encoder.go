// Package export serialises markers into the clipboard format: a bracketed,
// comma-separated list of millisecond times in ascending time order.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/wavemark/internal/markers"
)

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(text string) error
}

// Encode returns marker times in time order (not id order).
func Encode(store *markers.Store) []int64 {
	sorted := store.SortedByTime()
	out := make([]int64, len(sorted))
	for i, m := range sorted {
		out[i] = m.TimeMS
	}
	return out
}

// Format renders values as "[a, b, c]".
func Format(values []int64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	b.WriteByte(']')
	return b.String()
}

// Export encodes the store and writes it to cb. The encoded values are
// returned even when the clipboard write fails.
func Export(store *markers.Store, cb Clipboard) ([]int64, string, error) {
	values := Encode(store)
	text := Format(values)
	if cb == nil {
		return values, text, nil
	}
	if err := cb.WriteText(text); err != nil {
		return values, text, fmt.Errorf("export: clipboard: %w", err)
	}
	return values, text, nil
}
