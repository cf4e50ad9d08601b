package timeaxis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAxis(t *testing.T) *Axis {
	t.Helper()
	return New(20000, Options{ViewWidth: 1000, ZoomMin: 1, ZoomMax: 64, BaseStepMS: 200})
}

func TestAxis_Defaults(t *testing.T) {
	a := New(5000, Options{})
	s := a.State()
	assert.Equal(t, 1.0, s.ZoomFactor)
	assert.Equal(t, 0.0, s.PanOffsetMS)
	assert.Equal(t, int64(5000), s.DurationMS)
	assert.Equal(t, DefaultViewWidth, s.ViewWidth)
	assert.Equal(t, int64(DefaultBaseStepMS), a.NudgeStepMS())
}

func TestAxis_FullTrackFitsAtZoomOne(t *testing.T) {
	a := newAxis(t)
	assert.InDelta(t, 0, a.ToViewX(0), 1e-9)
	assert.InDelta(t, 1000, a.ToViewX(20000), 1e-9)
	assert.Equal(t, int64(9000), a.ToTimeMS(450))
}

func TestAxis_ToTimeMSClamps(t *testing.T) {
	a := newAxis(t)
	assert.Equal(t, int64(0), a.ToTimeMS(-50))
	assert.Equal(t, int64(20000), a.ToTimeMS(5000))
}

func TestAxis_RoundTrip(t *testing.T) {
	a := newAxis(t)
	for _, zoom := range []float64{1, 1.7, 4, 13.3, 64} {
		a.Reset(20000)
		a.Zoom(zoom, 300)
		a.Pan(137)
		pxPerMS := a.pxPerMS()
		tolerance := math.Max(1, 1/pxPerMS)
		for tm := int64(0); tm <= 20000; tm += 97 {
			got := a.ToTimeMS(a.ToViewX(tm))
			assert.InDeltaf(t, tm, got, tolerance, "zoom=%v t=%d", zoom, tm)
		}
	}
}

func TestAxis_PanClampsToTrack(t *testing.T) {
	a := newAxis(t)

	a.Pan(500)
	assert.Equal(t, 0.0, a.State().PanOffsetMS, "full view cannot pan")

	a.Zoom(4, 0)
	a.Pan(-100)
	assert.Equal(t, 0.0, a.State().PanOffsetMS)

	a.Pan(1e9)
	start, end := a.VisibleRange()
	assert.InDelta(t, 15000, start, 1e-6)
	assert.InDelta(t, 20000, end, 1e-6)
}

func TestAxis_ZoomKeepsAnchorFixed(t *testing.T) {
	a := newAxis(t)
	a.Zoom(2, 0)
	a.Pan(200)

	anchorX := 400.0
	before := float64(a.ToTimeMS(anchorX))
	a.Zoom(2, anchorX)
	after := float64(a.ToTimeMS(anchorX))
	assert.InDelta(t, before, after, 1)
	assert.Equal(t, 4.0, a.State().ZoomFactor)
}

func TestAxis_ZoomClamped(t *testing.T) {
	a := newAxis(t)
	a.Zoom(0.1, 500)
	assert.Equal(t, 1.0, a.State().ZoomFactor)
	a.Zoom(1e6, 500)
	assert.Equal(t, 64.0, a.State().ZoomFactor)

	a.Zoom(0, 500)
	a.Zoom(math.NaN(), 500)
	assert.Equal(t, 64.0, a.State().ZoomFactor)
}

func TestAxis_ZoomStep(t *testing.T) {
	a := newAxis(t)
	a.ZoomStep(2, 500)
	assert.InDelta(t, WheelFactor*WheelFactor, a.State().ZoomFactor, 1e-9)
	a.ZoomStep(-1, 500)
	assert.InDelta(t, WheelFactor, a.State().ZoomFactor, 1e-9)
	a.ZoomStep(0, 500)
	assert.InDelta(t, WheelFactor, a.State().ZoomFactor, 1e-9)
}

func TestAxis_NudgeStepShrinksWithZoom(t *testing.T) {
	a := newAxis(t)
	atOne := a.NudgeStepMS()
	require.Equal(t, int64(200), atOne)

	a.Zoom(2, 0)
	atTwo := a.NudgeStepMS()
	assert.LessOrEqual(t, atTwo, atOne)
	assert.Equal(t, int64(100), atTwo)

	a.Zoom(1000, 0)
	assert.GreaterOrEqual(t, a.NudgeStepMS(), int64(1))

	fine := New(20000, Options{ZoomMax: 10000, BaseStepMS: 5})
	fine.Zoom(10000, 0)
	assert.Equal(t, int64(1), fine.NudgeStepMS())
}

func TestAxis_ZeroDuration(t *testing.T) {
	a := New(0, Options{})
	assert.Equal(t, int64(0), a.ToTimeMS(300))
	assert.Equal(t, int64(0), a.Clamp(42))
}
