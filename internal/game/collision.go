package game

import (
	"github.com/tomz197/starblaster/internal/physics"
)

// outcome is the terminal result of a collision pass, if any.
type outcome int

const (
	outcomeNone outcome = iota
	outcomeWon
	outcomeLost
)

// resolveCollisions runs the projectile and ship passes for one frame.
//
// Each projectile kills at most the first target it overlaps, in slice
// order. Clearing the field ends the pass with a win before the ship is
// tested. A vulnerable ship loses on the first overlapping target.
func (g *Game) resolveCollisions() outcome {
	if g.resolveProjectileHits() {
		return outcomeWon
	}
	if g.shipCollides() {
		return outcomeLost
	}
	return outcomeNone
}

// resolveProjectileHits removes every projectile/target pair that hit and
// awards the score. Returns true when the last target was destroyed.
//
// Kill events are delivered once the projectile list is consistent again,
// each carrying the score and target count as of its own kill.
func (g *Game) resolveProjectileHits() bool {
	kills := g.kills[:0]
	won := false

	keptProjectiles := g.projectiles[:0]
	for i, p := range g.projectiles {
		hit := -1
		for j, t := range g.targets {
			if physics.Within(p.X, p.Y, t.X, t.Y, t.Radius()) {
				hit = j
				break
			}
		}
		if hit < 0 {
			keptProjectiles = append(keptProjectiles, p)
			continue
		}

		t := g.targets[hit]
		g.targets = append(g.targets[:hit], g.targets[hit+1:]...)
		g.session.Score += g.cfg.ScorePerTarget
		kills = append(kills, g.stamp(Event{Type: EventTargetDestroyed, X: t.X, Y: t.Y, Variant: t.Variant}))

		if len(g.targets) == 0 {
			// Remaining projectiles are irrelevant once the field is clear.
			keptProjectiles = append(keptProjectiles, g.projectiles[i+1:]...)
			won = true
			break
		}
	}
	clear(g.projectiles[len(keptProjectiles):])
	g.projectiles = keptProjectiles

	g.kills = kills
	for _, e := range kills {
		g.deliver(e)
	}
	return won
}

// shipCollides tests the ship against the remaining targets.
func (g *Game) shipCollides() bool {
	if g.ship.Invincible {
		return false
	}
	for _, t := range g.targets {
		if physics.Within(g.ship.X, g.ship.Y, t.X, t.Y, (g.ship.Size+t.Size)/2) {
			return true
		}
	}
	return false
}
