package game

import (
	"github.com/google/uuid"

	"github.com/tomz197/starblaster/internal/object"
)

// EventType identifies a lifecycle event.
type EventType int

const (
	// EventSessionStarted fires when the first control moves the session to Running.
	EventSessionStarted EventType = iota
	// EventTargetDestroyed fires once per target hit. X/Y/Variant describe the target.
	EventTargetDestroyed
	// EventSessionWon fires after the last target is destroyed.
	EventSessionWon
	// EventSessionLost fires when the ship collides with a target. X/Y is the ship.
	EventSessionLost
	// EventSessionReset fires after Restart has repopulated the field.
	EventSessionReset
	// EventInvincibilityEnded fires when the start-of-session window expires.
	EventInvincibilityEnded
)

func (t EventType) String() string {
	switch t {
	case EventSessionStarted:
		return "session-started"
	case EventTargetDestroyed:
		return "target-destroyed"
	case EventSessionWon:
		return "session-won"
	case EventSessionLost:
		return "session-lost"
	case EventSessionReset:
		return "session-reset"
	case EventInvincibilityEnded:
		return "invincibility-ended"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to listeners during the call that caused it.
type Event struct {
	Type      EventType
	Session   uuid.UUID
	X, Y      float64
	Score     int // Score after the event
	Remaining int // Targets left after the event
	Variant   object.Variant
}

// Listener receives events. It runs on the frame loop and must not block.
type Listener func(Event)

// Subscribe registers l for every subsequent event.
func (g *Game) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Game) emit(e Event) {
	g.deliver(g.stamp(e))
}

// stamp fills in the session fields as they stand now.
func (g *Game) stamp(e Event) Event {
	e.Session = g.session.ID
	e.Score = g.session.Score
	e.Remaining = len(g.targets)
	return e
}

func (g *Game) deliver(e Event) {
	for _, l := range g.listeners {
		l(e)
	}
}
