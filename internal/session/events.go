package session

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wavemark/internal/apperr"
)

// EventType names an input event.
type EventType string

const (
	EventPointerDown EventType = "pointer_down"
	EventPointerMove EventType = "pointer_move"
	EventPointerUp   EventType = "pointer_up"
	EventKeyLeft     EventType = "key_left"
	EventKeyRight    EventType = "key_right"
	EventWheel       EventType = "wheel"
	EventSpace       EventType = "space"
)

// Event is one discrete pointer, wheel or key input in view coordinates.
type Event struct {
	Type  EventType `json:"type"`
	X     float64   `json:"x"`
	Steps int       `json:"steps,omitempty"`
}

// Validate checks the event type and its required fields.
func (e Event) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Type, validation.Required, validation.In(
			EventPointerDown, EventPointerMove, EventPointerUp,
			EventKeyLeft, EventKeyRight, EventWheel, EventSpace,
		)),
		validation.Field(&e.Steps, validation.When(e.Type == EventWheel, validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("session: event: %w: %v", apperr.ErrInvalidInput, err)
	}
	return nil
}
