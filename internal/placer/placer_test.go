package placer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wavemark/internal/markers"
)

func TestAnchors_CentresEachSlice(t *testing.T) {
	assert.Equal(t, []int64{2500, 7500, 12500, 17500}, Anchors(4, 20000))
	assert.Equal(t, []int64{500}, Anchors(1, 1000))
	assert.Equal(t, []int64{166, 500, 833}, Anchors(3, 1000))
}

func TestAnchors_Empty(t *testing.T) {
	assert.Empty(t, Anchors(0, 20000))
	assert.Empty(t, Anchors(-3, 20000))
}

func TestAnchors_StrictlyIncreasingInsideBounds(t *testing.T) {
	for _, tc := range []struct {
		n int
		d int64
	}{{1, 2}, {3, 6}, {7, 1000}, {100, 20000}, {500, 1000}} {
		got := Anchors(tc.n, tc.d)
		require.Len(t, got, tc.n)
		assert.Greaterf(t, got[0], int64(0), "n=%d d=%d", tc.n, tc.d)
		assert.Lessf(t, got[len(got)-1], tc.d, "n=%d d=%d", tc.n, tc.d)
		for i := 1; i < len(got); i++ {
			assert.Greaterf(t, got[i], got[i-1], "n=%d d=%d i=%d", tc.n, tc.d, i)
		}
	}
}

// More units than half-milliseconds cannot all clear zero; they still stay
// inside the track and keep their order.
func TestAnchors_DenseTrack(t *testing.T) {
	got := Anchors(1000, 1000)
	require.Len(t, got, 1000)
	assert.Equal(t, int64(0), got[0])
	assert.Equal(t, int64(999), got[999])
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
}

func TestPlace_ReplacesExistingSet(t *testing.T) {
	s := markers.NewStore(20000)
	first := Place(s, 4)
	require.Len(t, first, 4)

	second := Place(s, 2)
	require.Len(t, second, 2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int64{5000, 15000}, []int64{second[0].TimeMS, second[1].TimeMS})
}

func TestPlace_ZeroUnitsIsNoop(t *testing.T) {
	s := markers.NewStore(20000)
	Place(s, 3)
	assert.Nil(t, Place(s, 0))
	assert.Equal(t, 3, s.Len())
}
