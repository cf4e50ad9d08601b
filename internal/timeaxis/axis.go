// Package timeaxis maps between audio time in milliseconds and horizontal
// view coordinates under a zoom factor and pan offset.
package timeaxis

import "math"

// Defaults applied by New when Options leaves a field zero.
const (
	DefaultZoomMin    = 1.0
	DefaultZoomMax    = 1000.0
	DefaultBaseStepMS = 200
	DefaultViewWidth  = 1000.0

	// WheelFactor is the per-step zoom multiplier for scroll-wheel input.
	WheelFactor = 1.25
)

// Options configures an Axis.
type Options struct {
	ViewWidth  float64
	ZoomMin    float64
	ZoomMax    float64
	BaseStepMS int64
}

// ViewState is the zoom/pan state of the waveform display.
type ViewState struct {
	ZoomFactor  float64 `json:"zoom_factor"`
	PanOffsetMS float64 `json:"pan_offset_ms"`
	DurationMS  int64   `json:"duration_ms"`
	ViewWidth   float64 `json:"view_width"`
}

// Axis owns the ViewState for one loaded track. It is not safe for
// concurrent use; callers serialise access.
type Axis struct {
	state      ViewState
	basePxMS   float64
	zoomMin    float64
	zoomMax    float64
	baseStepMS int64
}

// New returns an axis for a track of durationMS. At zoom 1 the whole track
// fits the view width.
func New(durationMS int64, opts Options) *Axis {
	if opts.ViewWidth <= 0 {
		opts.ViewWidth = DefaultViewWidth
	}
	if opts.ZoomMin <= 0 {
		opts.ZoomMin = DefaultZoomMin
	}
	if opts.ZoomMax < opts.ZoomMin {
		opts.ZoomMax = math.Max(DefaultZoomMax, opts.ZoomMin)
	}
	if opts.BaseStepMS <= 0 {
		opts.BaseStepMS = DefaultBaseStepMS
	}
	a := &Axis{
		zoomMin:    opts.ZoomMin,
		zoomMax:    opts.ZoomMax,
		baseStepMS: opts.BaseStepMS,
	}
	a.state.ViewWidth = opts.ViewWidth
	a.Reset(durationMS)
	return a
}

// Reset restores the default view for a newly loaded track.
func (a *Axis) Reset(durationMS int64) {
	if durationMS < 0 {
		durationMS = 0
	}
	a.state.DurationMS = durationMS
	a.state.PanOffsetMS = 0
	a.state.ZoomFactor = a.clampZoom(1.0)
	if durationMS > 0 {
		a.basePxMS = a.state.ViewWidth / float64(durationMS)
	} else {
		a.basePxMS = 1
	}
}

// State returns a copy of the current view state.
func (a *Axis) State() ViewState { return a.state }

// DurationMS returns the track length.
func (a *Axis) DurationMS() int64 { return a.state.DurationMS }

func (a *Axis) pxPerMS() float64 {
	return a.basePxMS * a.state.ZoomFactor
}

// ToViewX converts a timeline position to a view x coordinate.
func (a *Axis) ToViewX(timeMS int64) float64 {
	return (float64(timeMS) - a.state.PanOffsetMS) * a.pxPerMS()
}

// ToTimeMS converts a view x coordinate to the nearest addressable
// millisecond within [0, duration].
func (a *Axis) ToTimeMS(x float64) int64 {
	t := math.Round(a.state.PanOffsetMS + x/a.pxPerMS())
	return a.Clamp(int64(t))
}

// Clamp limits t to [0, duration].
func (a *Axis) Clamp(t int64) int64 {
	if t < 0 {
		return 0
	}
	if t > a.state.DurationMS {
		return a.state.DurationMS
	}
	return t
}

// VisibleRange returns the timeline interval covered by the view.
func (a *Axis) VisibleRange() (startMS, endMS float64) {
	startMS = a.state.PanOffsetMS
	endMS = startMS + a.state.ViewWidth/a.pxPerMS()
	return startMS, math.Min(endMS, float64(a.state.DurationMS))
}

// Pan shifts the view by deltaX pixels. Positive values move the view
// towards later times.
func (a *Axis) Pan(deltaX float64) {
	a.state.PanOffsetMS += deltaX / a.pxPerMS()
	a.clampPan()
}

// Zoom multiplies the zoom factor by factorDelta and keeps the time under
// anchorX fixed on screen.
func (a *Axis) Zoom(factorDelta, anchorX float64) {
	if factorDelta <= 0 || math.IsNaN(factorDelta) || math.IsInf(factorDelta, 0) {
		return
	}
	anchorT := a.state.PanOffsetMS + anchorX/a.pxPerMS()
	a.state.ZoomFactor = a.clampZoom(a.state.ZoomFactor * factorDelta)
	a.state.PanOffsetMS = anchorT - anchorX/a.pxPerMS()
	a.clampPan()
}

// ZoomStep applies steps wheel notches at anchorX; positive steps zoom in.
func (a *Axis) ZoomStep(steps int, anchorX float64) {
	if steps == 0 {
		return
	}
	a.Zoom(math.Pow(WheelFactor, float64(steps)), anchorX)
}

// NudgeStepMS is the keyboard nudge distance, finer when zoomed in.
func (a *Axis) NudgeStepMS() int64 {
	step := int64(math.Floor(float64(a.baseStepMS) / a.state.ZoomFactor))
	if step < 1 {
		return 1
	}
	return step
}

func (a *Axis) clampZoom(z float64) float64 {
	return math.Max(a.zoomMin, math.Min(a.zoomMax, z))
}

func (a *Axis) clampPan() {
	visible := a.state.ViewWidth / a.pxPerMS()
	maxPan := math.Max(0, float64(a.state.DurationMS)-visible)
	a.state.PanOffsetMS = math.Max(0, math.Min(maxPan, a.state.PanOffsetMS))
}
