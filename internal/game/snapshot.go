package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/starblaster/internal/object"
)

// Snapshot is a copy of everything a presentation sink needs for one frame.
// It shares no memory with the Game.
type Snapshot struct {
	Session     uuid.UUID
	Status      Status
	Score       int
	TargetsLeft int
	Bounds      object.Bounds

	Ship        object.Ship
	Targets     []object.Target
	Projectiles []object.Projectile

	// InvincibleRemaining is the time left in the invincibility window, zero when vulnerable.
	InvincibleRemaining time.Duration
}

// Snapshot copies the current state. buf, if non-nil, is reused to avoid
// per-frame allocations; pass the previous frame's snapshot.
func (g *Game) Snapshot(buf *Snapshot) Snapshot {
	var s Snapshot
	if buf != nil {
		s.Targets = buf.Targets[:0]
		s.Projectiles = buf.Projectiles[:0]
	}

	s.Session = g.session.ID
	s.Status = g.session.Status
	s.Score = g.session.Score
	s.TargetsLeft = len(g.targets)
	s.Bounds = g.bounds
	s.Ship = *g.ship

	for _, t := range g.targets {
		s.Targets = append(s.Targets, *t)
	}
	for _, p := range g.projectiles {
		s.Projectiles = append(s.Projectiles, *p)
	}

	if g.ship.Invincible {
		if left := g.session.InvincibleUntil.Sub(g.clock.Now()); left > 0 {
			s.InvincibleRemaining = left
		}
	}
	return s
}
