package game

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle phase of a session.
type Status int

const (
	StatusNotStarted Status = iota // Field frozen until the first control
	StatusRunning                  // Active play
	StatusWon                      // Every target destroyed
	StatusLost                     // Ship hit a target
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the status is terminal until restart.
func (s Status) Over() bool {
	return s == StatusWon || s == StatusLost
}

// Session is the state of one play-through. Restart replaces it wholesale.
type Session struct {
	ID              uuid.UUID
	Status          Status
	Score           int
	InvincibleUntil time.Time // Zero when no window was granted
	LastFire        time.Time // Zero before the first shot
}

func newSession() Session {
	return Session{ID: uuid.New(), Status: StatusNotStarted}
}
