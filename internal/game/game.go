// Package game is the simulation core: one session of ship, targets and
// projectiles advanced a frame at a time.
//
// A Game is owned by a single driving loop. Update advances one frame from a
// polled input snapshot, Snapshot exposes the result for drawing, and lifecycle
// changes are reported synchronously to subscribed listeners. Nothing in this
// package draws, blocks or performs I/O.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/input"
	"github.com/tomz197/starblaster/internal/object"
)

// Options configures a Game beyond its tuning.
type Options struct {
	Clock Clock      // Defaults to SystemClock
	Rand  *rand.Rand // Defaults to a source seeded from Config.Seed
}

// Game holds the session and every entity in it.
type Game struct {
	cfg     config.Config
	clock   Clock
	spawner *object.Spawner
	bounds  object.Bounds

	session     Session
	ship        *object.Ship
	targets     []*object.Target
	projectiles []*object.Projectile

	timers             Timers
	invincibilityTimer TimerID
	resizeTimer        TimerID

	listeners []Listener
	kills     []Event // Reused by the projectile pass
}

// New creates a game in the NotStarted state with a freshly spawned field.
func New(cfg config.Config, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	rng := opts.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	g := &Game{
		cfg:     cfg,
		clock:   clock,
		spawner: object.NewSpawner(rng, cfg.Spawn),
		bounds:  object.Bounds{Width: cfg.Width, Height: cfg.Height},
		session: newSession(),
	}
	g.ship = object.NewShip(cfg.Ship, g.bounds.CenterX(), g.bounds.CenterY())
	g.spawnTargets()
	return g, nil
}

// Update advances one frame using the controls held this frame.
//
// Due timers run first. A NotStarted session starts on any movement or fire
// control. A finished session restarts on Confirm and otherwise stays frozen.
// A running session fires (subject to the rate limit), integrates every
// entity, drops expired projectiles and resolves collisions.
func (g *Game) Update(ctrl input.Controls) {
	now := g.clock.Now()
	g.timers.Run(now, g.session.ID)

	switch g.session.Status {
	case StatusNotStarted:
		if !ctrl.Active() {
			return
		}
		g.start(now)
	case StatusWon, StatusLost:
		if ctrl.Confirm {
			g.Restart()
		}
		return
	}

	if ctrl.Fire {
		g.fire(now)
	}
	g.step(ctrl)

	switch g.resolveCollisions() {
	case outcomeWon:
		g.session.Status = StatusWon
		g.emit(Event{Type: EventSessionWon, X: g.ship.X, Y: g.ship.Y})
	case outcomeLost:
		g.session.Status = StatusLost
		g.cancelInvincibility()
		g.emit(Event{Type: EventSessionLost, X: g.ship.X, Y: g.ship.Y})
	}

	g.checkInvariants()
}

// Fire launches a projectile if the session is running and the minimum
// interval since the last honored shot has passed. Dropped requests are not
// queued. Reports whether a projectile was created.
func (g *Game) Fire() bool {
	return g.fire(g.clock.Now())
}

// Restart discards the session and builds a new one: fresh session identity,
// ship back at the center, empty projectile list, score zero and a newly
// spawned field. Any pending invincibility expiry is cancelled. Allowed at
// any time.
func (g *Game) Restart() {
	g.cancelInvincibility()
	g.session = newSession()

	g.ship.Reset(g.bounds.CenterX(), g.bounds.CenterY())
	clear(g.projectiles)
	g.projectiles = g.projectiles[:0]
	clear(g.targets)
	g.targets = g.targets[:0]
	g.spawnTargets()

	g.emit(Event{Type: EventSessionReset})
}

// Resize requests a new play area. Requests are debounced: the latest one
// wins and takes effect on the first frame after the debounce delay.
//
// A session that has not started is laid out again for the new area. A
// running session keeps its entities; the next step wraps the ship and
// bounces the targets back inside. A finished session is frozen, so its
// entities are clamped to the new edges.
func (g *Game) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	g.timers.Cancel(g.resizeTimer)
	at := g.clock.Now().Add(g.cfg.ResizeDebounce)
	// Not tied to a session: the area outlives restarts.
	g.resizeTimer = g.timers.Schedule(at, uuid.Nil, func() {
		g.resizeTimer = 0
		g.applyBounds(object.Bounds{Width: width, Height: height})
	})
}

// Session returns a copy of the current session state.
func (g *Game) Session() Session {
	return g.session
}

// Bounds returns the active play area.
func (g *Game) Bounds() object.Bounds {
	return g.bounds
}

// start enters Running and grants the invincibility window.
func (g *Game) start(now time.Time) {
	g.session.Status = StatusRunning
	g.ship.Invincible = true
	g.session.InvincibleUntil = now.Add(g.cfg.Invincibility)

	g.invincibilityTimer = g.timers.Schedule(g.session.InvincibleUntil, g.session.ID, func() {
		g.invincibilityTimer = 0
		g.ship.Invincible = false
		g.emit(Event{Type: EventInvincibilityEnded, X: g.ship.X, Y: g.ship.Y})
	})

	g.emit(Event{Type: EventSessionStarted, X: g.ship.X, Y: g.ship.Y})
}

func (g *Game) cancelInvincibility() {
	if g.invincibilityTimer != 0 {
		g.timers.Cancel(g.invincibilityTimer)
		g.invincibilityTimer = 0
	}
}

func (g *Game) fire(now time.Time) bool {
	if g.session.Status != StatusRunning {
		return false
	}
	if !g.session.LastFire.IsZero() && now.Sub(g.session.LastFire) < g.cfg.FireInterval {
		return false
	}

	p := object.NewProjectile(g.ship.X, g.ship.Y, g.ship.Angle, g.cfg.Projectile.Speed, g.cfg.Projectile.Life)
	g.projectiles = append(g.projectiles, p)
	g.session.LastFire = now
	return true
}

// step integrates every entity and drops expired projectiles.
func (g *Game) step(ctrl input.Controls) {
	g.ship.Step(ctrl, g.bounds)

	for _, t := range g.targets {
		t.Step(g.bounds)
	}

	kept := g.projectiles[:0]
	for _, p := range g.projectiles {
		p.Step()
		if !p.Expired(g.bounds) {
			kept = append(kept, p)
		}
	}
	clear(g.projectiles[len(kept):])
	g.projectiles = kept
}

func (g *Game) applyBounds(b object.Bounds) {
	g.bounds = b

	switch {
	case g.session.Status == StatusNotStarted:
		g.ship.Reset(b.CenterX(), b.CenterY())
		clear(g.targets)
		g.targets = g.targets[:0]
		g.spawnTargets()
	case g.session.Status.Over():
		b.Clamp(&g.ship.X, &g.ship.Y)
		for _, t := range g.targets {
			b.Clamp(&t.X, &t.Y)
		}
	}
}

func (g *Game) spawnTargets() {
	placement := g.spawner.Place(
		g.cfg.TargetCount,
		g.bounds.Width, g.bounds.Height,
		g.ship.X, g.ship.Y,
		g.targets,
	)
	g.targets = append(g.targets, placement.Targets...)
}

// checkInvariants panics on corrupted state in debug builds.
func (g *Game) checkInvariants() {
	if !debugChecks {
		return
	}
	if g.session.Score < 0 {
		panic(fmt.Sprintf("game: negative score %d", g.session.Score))
	}
	if g.session.Status == StatusWon && len(g.targets) != 0 {
		panic(fmt.Sprintf("game: won with %d targets left", len(g.targets)))
	}
	for i, p := range g.projectiles {
		if p == nil || p.Expired(g.bounds) {
			panic(fmt.Sprintf("game: projectile %d expired or nil after update", i))
		}
	}
	for i, t := range g.targets {
		if t == nil {
			panic(fmt.Sprintf("game: target %d is nil", i))
		}
	}
	if !g.bounds.Contains(g.ship.X, g.ship.Y) {
		panic(fmt.Sprintf("game: ship at (%g, %g) outside %gx%g", g.ship.X, g.ship.Y, g.bounds.Width, g.bounds.Height))
	}
}
