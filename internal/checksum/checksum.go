// Package checksum computes content digests used to key cached audio metadata.
package checksum

import (
	"encoding/hex"
	"fmt"
	"io"

	"lukechampine.com/blake3"
)

// Sum returns the hex-encoded 256-bit BLAKE3 digest of data.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumReader streams r through BLAKE3.
func SumReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("checksum: hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
