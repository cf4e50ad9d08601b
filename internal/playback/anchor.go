// Package playback decides where playback starts and drives the player.
package playback

import "github.com/starford/wavemark/internal/markers"

// Player receives fire-and-forget transport commands. Implementations must
// not block; the audio device runs on its own schedule.
type Player interface {
	Seek(timeMS int64)
	Play()
	Pause()
}

// SelectionSource reports the currently selected marker id, if any.
type SelectionSource interface {
	SelectedID() (int64, bool)
}

// State is the transport state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Anchor toggles playback, starting from the selected marker when there
// is one and from the beginning otherwise.
type Anchor struct {
	store     *markers.Store
	selection SelectionSource
	player    Player
	state     State
}

// NewAnchor creates an Anchor in the Stopped state.
func NewAnchor(store *markers.Store, selection SelectionSource, player Player) *Anchor {
	return &Anchor{store: store, selection: selection, player: player}
}

// State returns the transport state.
func (a *Anchor) State() State { return a.state }

// StartTimeMS reads the selected marker's current time from the store.
func (a *Anchor) StartTimeMS() int64 {
	id, ok := a.selection.SelectedID()
	if !ok {
		return 0
	}
	m, err := a.store.Get(id)
	if err != nil {
		return 0
	}
	return m.TimeMS
}

// Toggle flips between Stopped and Playing and returns the new state.
func (a *Anchor) Toggle() State {
	if a.state == Playing {
		a.Stop()
		return a.state
	}
	a.player.Seek(a.StartTimeMS())
	a.player.Play()
	a.state = Playing
	return a.state
}

// Stop pauses the player if it is playing.
func (a *Anchor) Stop() {
	if a.state != Playing {
		return
	}
	a.player.Pause()
	a.state = Stopped
}
