// Package selection turns pointer and keyboard input into marker selection,
// drag and nudge operations.
package selection

import (
	"errors"
	"math"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/markers"
	"github.com/starford/wavemark/internal/timeaxis"
)

// DefaultHitRadiusPX is the pointer tolerance around a marker, in view pixels.
const DefaultHitRadiusPX = 6.0

// State is the controller's position in its state machine.
type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Controller tracks the selected marker and applies input to the store.
// It holds only an id into the store, never a marker copy.
type Controller struct {
	store     *markers.Store
	axis      *timeaxis.Axis
	hitRadius float64

	state      State
	selectedID int64

	// panning is a background drag on empty waveform space.
	panning  bool
	panLastX float64
}

// NewController binds a controller to a store and axis.
func NewController(store *markers.Store, axis *timeaxis.Axis, hitRadiusPX float64) *Controller {
	if hitRadiusPX <= 0 {
		hitRadiusPX = DefaultHitRadiusPX
	}
	return &Controller{store: store, axis: axis, hitRadius: hitRadiusPX}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// SelectedID returns the selected marker id, if any.
func (c *Controller) SelectedID() (int64, bool) {
	if c.state == Idle {
		return 0, false
	}
	return c.selectedID, true
}

// Panning reports whether a background pan drag is in progress.
func (c *Controller) Panning() bool { return c.panning }

// Reset clears the selection and any drag, e.g. after a new track loads.
func (c *Controller) Reset() {
	c.deselect()
	c.panning = false
}

// HitTest returns the marker nearest to x within the hit radius. Ties go
// to the lowest id.
func (c *Controller) HitTest(x float64) (int64, bool) {
	var (
		bestID   int64
		bestDist = math.Inf(1)
		found    bool
	)
	for _, m := range c.store.All() {
		d := math.Abs(c.axis.ToViewX(m.TimeMS) - x)
		if d > c.hitRadius {
			continue
		}
		if d < bestDist || (d == bestDist && m.ID < bestID) {
			bestID, bestDist, found = m.ID, d, true
		}
	}
	return bestID, found
}

// PointerDown handles a primary-button press at view x.
func (c *Controller) PointerDown(x float64) {
	c.validate()
	hit, ok := c.HitTest(x)

	switch {
	case ok && c.state != Idle && hit == c.selectedID:
		c.state = Dragging
	case ok:
		c.selectMarker(hit)
	default:
		c.deselect()
		c.panning = true
		c.panLastX = x
	}
}

// PointerMove handles pointer motion at view x.
func (c *Controller) PointerMove(x float64) {
	if c.panning {
		c.axis.Pan(c.panLastX - x)
		c.panLastX = x
		return
	}
	if c.state != Dragging {
		return
	}
	if _, err := c.store.SetTime(c.selectedID, c.axis.ToTimeMS(x)); err != nil {
		c.dropStale(err)
	}
}

// PointerUp ends a marker drag or a pan.
func (c *Controller) PointerUp() {
	c.panning = false
	if c.state == Dragging {
		c.state = Selected
	}
}

// KeyLeft nudges the selected marker one step earlier.
func (c *Controller) KeyLeft() { c.nudge(-1) }

// KeyRight nudges the selected marker one step later.
func (c *Controller) KeyRight() { c.nudge(1) }

// Wheel zooms around x; positive steps zoom in.
func (c *Controller) Wheel(steps int, x float64) {
	c.axis.ZoomStep(steps, x)
}

// Select makes id the selected marker.
func (c *Controller) Select(id int64) error {
	if _, err := c.store.Get(id); err != nil {
		return err
	}
	c.selectMarker(id)
	return nil
}

func (c *Controller) nudge(dir int64) {
	if c.state == Idle {
		return
	}
	m, err := c.store.Get(c.selectedID)
	if err != nil {
		c.dropStale(err)
		return
	}
	// SetTime clamps to [0, duration].
	if _, err := c.store.SetTime(m.ID, m.TimeMS+dir*c.axis.NudgeStepMS()); err != nil {
		c.dropStale(err)
	}
}

func (c *Controller) selectMarker(id int64) {
	if c.state != Idle && c.selectedID != id {
		_ = c.store.SetSelected(c.selectedID, false)
	}
	c.selectedID = id
	c.state = Selected
	_ = c.store.SetSelected(id, true)
}

func (c *Controller) deselect() {
	if c.state != Idle {
		_ = c.store.SetSelected(c.selectedID, false)
	}
	c.state = Idle
	c.selectedID = 0
}

// validate drops a selection whose marker no longer exists.
func (c *Controller) validate() {
	if c.state == Idle {
		return
	}
	if _, err := c.store.Get(c.selectedID); err != nil {
		c.dropStale(err)
	}
}

func (c *Controller) dropStale(err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		c.state = Idle
		c.selectedID = 0
	}
}
