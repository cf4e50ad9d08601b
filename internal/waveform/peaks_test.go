package waveform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeaks_BucketsMinMax(t *testing.T) {
	// 1 kHz sample rate: one sample per millisecond.
	samples := []int16{1, -2, 3, -4, 5, -6, 7, -8}
	got := Peaks(samples, 1000, 0, 8, 4)
	require.Len(t, got, 4)
	assert.Equal(t, Peak{Min: -2, Max: 1}, got[0])
	assert.Equal(t, Peak{Min: -8, Max: 7}, got[3])
}

func TestPeaks_VisibleRangeOnly(t *testing.T) {
	samples := []int16{100, 100, 1, 2, 3, 4, 100, 100}
	got := Peaks(samples, 1000, 2, 6, 2)
	assert.Equal(t, []Peak{{Min: 1, Max: 2}, {Min: 3, Max: 4}}, got)
}

func TestPeaks_MoreColumnsThanSamples(t *testing.T) {
	samples := []int16{5, -5}
	got := Peaks(samples, 1000, 0, 2, 10)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 10)
	for _, p := range got {
		assert.LessOrEqual(t, p.Min, p.Max)
	}
}

func TestPeaks_Degenerate(t *testing.T) {
	assert.Nil(t, Peaks(nil, 1000, 0, 10, 10))
	assert.Nil(t, Peaks([]int16{1}, 0, 0, 10, 10))
	assert.Nil(t, Peaks([]int16{1}, 1000, 5, 5, 10))
	assert.Nil(t, Peaks([]int16{1}, 1000, 0, 10, 0))
	assert.Nil(t, Peaks([]int16{1, 2}, 1000, 50, 60, 4))
}
