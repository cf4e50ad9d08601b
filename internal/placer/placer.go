// Package placer computes initial marker anchors for a submitted transcription.
package placer

import "github.com/starford/wavemark/internal/markers"

// Anchors spreads unitCount markers evenly across [0, durationMS], centring
// each one in its slice: t(i) = floor((i + 0.5) * D / n).
func Anchors(unitCount int, durationMS int64) []int64 {
	if unitCount <= 0 || durationMS < 0 {
		return nil
	}
	n := int64(unitCount)
	out := make([]int64, unitCount)
	for i := int64(0); i < n; i++ {
		out[i] = (2*i + 1) * durationMS / (2 * n)
	}
	return out
}

// Place replaces every marker in store with unitCount evenly spaced ones.
// A zero count leaves the store untouched.
func Place(store *markers.Store, unitCount int) []markers.Marker {
	if unitCount <= 0 {
		return nil
	}
	return store.ReplaceAll(Anchors(unitCount, store.DurationMS()))
}
