package game

import (
	"errors"
	"testing"
	"time"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/input"
	"github.com/tomz197/starblaster/internal/object"
)

var startTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestGame(t *testing.T) (*Game, *ManualClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 1
	clock := NewManualClock(startTime)
	g, err := New(cfg, Options{Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, clock
}

// runningGame returns a running game whose field is replaced by stationary targets.
func runningGame(t *testing.T, targets ...*object.Target) (*Game, *ManualClock) {
	t.Helper()
	g, clock := newTestGame(t)
	g.start(clock.Now())
	g.targets = targets
	return g, clock
}

// recorder collects event types in delivery order.
type recorder struct {
	events []Event
}

func (r *recorder) listen(e Event) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TargetCount = 0
	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewGameIsNotStarted(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.Session()

	if s.Status != StatusNotStarted || s.Score != 0 {
		t.Errorf("session = %+v, want not started with score 0", s)
	}
	if len(g.targets) != 15 {
		t.Errorf("targets = %d, want 15", len(g.targets))
	}
	if g.ship.X != 640 || g.ship.Y != 400 {
		t.Errorf("ship at (%g, %g), want center", g.ship.X, g.ship.Y)
	}
}

func TestNotStartedIgnoresConfirmAndIdle(t *testing.T) {
	g, _ := newTestGame(t)
	g.Update(input.Controls{})
	g.Update(input.Controls{Confirm: true})
	if g.Session().Status != StatusNotStarted {
		t.Errorf("status = %v, want not-started", g.Session().Status)
	}
	if g.Fire() {
		t.Error("Fire honored before the session started")
	}
}

func TestFirstControlStartsSession(t *testing.T) {
	g, clock := newTestGame(t)
	g.Update(input.Controls{Left: true})

	s := g.Session()
	if s.Status != StatusRunning {
		t.Fatalf("status = %v, want running", s.Status)
	}
	if !g.ship.Invincible {
		t.Error("ship should be invincible after start")
	}
	if want := clock.Now().Add(3 * time.Second); !s.InvincibleUntil.Equal(want) {
		t.Errorf("InvincibleUntil = %v, want %v", s.InvincibleUntil, want)
	}
}

func TestStartingWithFireShoots(t *testing.T) {
	g, _ := newTestGame(t)
	g.Update(input.Controls{Fire: true})
	if len(g.projectiles) != 1 {
		t.Errorf("projectiles = %d, want 1", len(g.projectiles))
	}
}

func TestProjectileDestroysTarget(t *testing.T) {
	hit := &object.Target{X: 100, Y: 100, Size: 30}
	far := &object.Target{X: 1200, Y: 700, Size: 30}
	g, _ := runningGame(t, hit, far)
	g.projectiles = []*object.Projectile{{X: 100, Y: 100, Life: 10}}

	g.Update(input.Controls{})

	if len(g.projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0", len(g.projectiles))
	}
	if len(g.targets) != 1 || g.targets[0] != far {
		t.Errorf("targets = %v, want only the far target", g.targets)
	}
	if g.Session().Score != 100 {
		t.Errorf("score = %d, want 100", g.Session().Score)
	}
	if g.Session().Status != StatusRunning {
		t.Errorf("status = %v, want running", g.Session().Status)
	}
}

func TestProjectileKillsAtMostOneTarget(t *testing.T) {
	a := &object.Target{X: 100, Y: 100, Size: 60}
	b := &object.Target{X: 105, Y: 100, Size: 60}
	c := &object.Target{X: 1200, Y: 700, Size: 30}
	g, _ := runningGame(t, a, b, c)
	g.projectiles = []*object.Projectile{{X: 102, Y: 100, Life: 10}}

	g.Update(input.Controls{})

	if len(g.targets) != 2 || g.targets[0] != b {
		t.Errorf("expected only the first overlapping target removed, got %d left", len(g.targets))
	}
	if g.Session().Score != 100 {
		t.Errorf("score = %d, want 100", g.Session().Score)
	}
}

func TestKillEventsSeeConsistentState(t *testing.T) {
	a := &object.Target{X: 200, Y: 100, Size: 30}
	b := &object.Target{X: 600, Y: 300, Size: 30}
	c := &object.Target{X: 1200, Y: 700, Size: 30}
	g, _ := runningGame(t, a, b, c)
	g.projectiles = []*object.Projectile{
		{X: 50, Y: 50, Life: 10},
		{X: 200, Y: 100, Life: 10},
		{X: 400, Y: 400, Life: 10},
		{X: 600, Y: 300, Life: 10},
	}

	var (
		events []Event
		seen   [][]float64
		buf    Snapshot
	)
	g.Subscribe(func(e Event) {
		if e.Type != EventTargetDestroyed {
			return
		}
		events = append(events, e)
		buf = g.Snapshot(&buf)
		xs := make([]float64, 0, len(buf.Projectiles))
		for _, p := range buf.Projectiles {
			xs = append(xs, p.X)
		}
		seen = append(seen, xs)
	})

	g.Update(input.Controls{})

	if len(events) != 2 {
		t.Fatalf("kill events = %d, want 2", len(events))
	}
	for i, want := range []struct{ score, remaining int }{{100, 2}, {200, 1}} {
		if events[i].Score != want.score || events[i].Remaining != want.remaining {
			t.Errorf("event %d: score=%d remaining=%d, want %d and %d",
				i, events[i].Score, events[i].Remaining, want.score, want.remaining)
		}
	}
	for i, xs := range seen {
		if len(xs) != 2 || xs[0] != 50 || xs[1] != 400 {
			t.Errorf("snapshot during event %d has projectiles at %v, want [50 400]", i, xs)
		}
	}
}

func TestMissOutsideRadius(t *testing.T) {
	tg := &object.Target{X: 100, Y: 100, Size: 30}
	g, _ := runningGame(t, tg)
	// Exactly on the radius is not a hit.
	g.projectiles = []*object.Projectile{{X: 115, Y: 100, Life: 10}}

	g.Update(input.Controls{})

	if len(g.targets) != 1 || len(g.projectiles) != 1 {
		t.Errorf("targets = %d projectiles = %d, want 1 and 1", len(g.targets), len(g.projectiles))
	}
}

func TestLastTargetWinsAndFreezes(t *testing.T) {
	g, _ := runningGame(t, &object.Target{X: 100, Y: 100, Size: 30})
	g.projectiles = []*object.Projectile{{X: 100, Y: 100, Life: 10}}

	var rec recorder
	g.Subscribe(rec.listen)
	g.Update(input.Controls{})

	if g.Session().Status != StatusWon {
		t.Fatalf("status = %v, want won", g.Session().Status)
	}
	if got := rec.types(); len(got) != 2 || got[0] != EventTargetDestroyed || got[1] != EventSessionWon {
		t.Errorf("events = %v, want [target-destroyed session-won]", got)
	}

	x, y := g.ship.X, g.ship.Y
	for i := 0; i < 10; i++ {
		g.Update(input.Controls{Forward: true, Fire: true})
	}
	if g.ship.X != x || g.ship.Y != y {
		t.Error("ship moved after the session was won")
	}
	if g.Session().Status != StatusWon || g.Session().Score != 100 {
		t.Errorf("session changed after win: %+v", g.Session())
	}
	if len(g.projectiles) != 0 {
		t.Errorf("fired %d projectiles after win", len(g.projectiles))
	}
}

func TestWinSkipsShipCollision(t *testing.T) {
	g, _ := newTestGame(t)
	g.start(startTime)
	g.ship.Invincible = false
	// The only target overlaps the ship and the projectile.
	g.targets = []*object.Target{{X: g.ship.X + 10, Y: g.ship.Y, Size: 30}}
	g.projectiles = []*object.Projectile{{X: g.ship.X + 10, Y: g.ship.Y, Life: 10}}

	g.Update(input.Controls{})

	if g.Session().Status != StatusWon {
		t.Errorf("status = %v, want won", g.Session().Status)
	}
}

func TestShipCollisionLoses(t *testing.T) {
	g, clock := newTestGame(t)
	g.start(clock.Now())
	// Invincibility expires after 3s.
	clock.Advance(3 * time.Second)
	// 34 < (40+30)/2
	g.targets = []*object.Target{{X: g.ship.X + 34, Y: g.ship.Y, Size: 30}}

	var rec recorder
	g.Subscribe(rec.listen)
	g.Update(input.Controls{})

	if g.Session().Status != StatusLost {
		t.Fatalf("status = %v, want lost", g.Session().Status)
	}
	got := rec.types()
	if len(got) != 2 || got[0] != EventInvincibilityEnded || got[1] != EventSessionLost {
		t.Errorf("events = %v, want [invincibility-ended session-lost]", got)
	}
}

func TestShipCollisionBoundaryIsSafe(t *testing.T) {
	g, clock := runningGame(t)
	g.targets = []*object.Target{{X: g.ship.X + 35, Y: g.ship.Y, Size: 30}}
	clock.Advance(3 * time.Second)

	g.Update(input.Controls{})

	if g.Session().Status != StatusRunning {
		t.Errorf("status = %v, want running at exactly the contact distance", g.Session().Status)
	}
}

func TestInvincibleShipPassesThroughTargets(t *testing.T) {
	g, clock := newTestGame(t)
	g.Update(input.Controls{Left: true})
	g.targets = []*object.Target{{X: g.ship.X, Y: g.ship.Y, Size: 60}}

	clock.Advance(2999 * time.Millisecond)
	g.Update(input.Controls{})
	if g.Session().Status != StatusRunning || !g.ship.Invincible {
		t.Fatalf("status = %v invincible = %v, want running and invincible", g.Session().Status, g.ship.Invincible)
	}

	clock.Advance(time.Millisecond)
	g.Update(input.Controls{})
	if g.ship.Invincible {
		t.Error("invincibility should have expired after 3s")
	}
	if g.Session().Status != StatusLost {
		t.Errorf("status = %v, want lost once vulnerable", g.Session().Status)
	}
}

func TestFireRateLimit(t *testing.T) {
	g, clock := runningGame(t, &object.Target{X: 0, Y: 0, Size: 30})

	if !g.Fire() {
		t.Fatal("first shot should always be honored")
	}
	clock.Advance(100 * time.Millisecond)
	if g.Fire() {
		t.Error("shot 100ms later should be dropped")
	}
	clock.Advance(99 * time.Millisecond)
	if g.Fire() {
		t.Error("shot 199ms after the first should be dropped")
	}
	clock.Advance(time.Millisecond)
	if !g.Fire() {
		t.Error("shot 200ms after the first should be honored")
	}
	if len(g.projectiles) != 2 {
		t.Errorf("projectiles = %d, want 2", len(g.projectiles))
	}
}

func TestHeldFireRespectsRateLimit(t *testing.T) {
	g, clock := runningGame(t, &object.Target{X: 0, Y: 0, Size: 30})
	for i := 0; i < 12; i++ {
		g.Update(input.Controls{Fire: true})
		clock.Advance(config.TargetFrameTime)
	}
	// 12 frames at 60 FPS span 183ms, so only the first frame fires.
	if len(g.projectiles) != 1 {
		t.Errorf("projectiles = %d, want 1", len(g.projectiles))
	}
}

func TestProjectilesLaunchFromShipAlongHeading(t *testing.T) {
	g, _ := runningGame(t, &object.Target{X: 0, Y: 0, Size: 30})
	g.ship.Angle = 0
	g.Fire()

	p := g.projectiles[0]
	if p.X != g.ship.X || p.Y != g.ship.Y || p.VX != 10 || p.VY != 0 || p.Life != 100 {
		t.Errorf("projectile = %+v", *p)
	}
}

func TestProjectilesExpire(t *testing.T) {
	g, _ := runningGame(t, &object.Target{X: 0, Y: 800, Size: 30})
	g.ship.Angle = 0
	g.Fire()

	// 640px to the right edge at 10px per frame.
	for i := 0; i < 70; i++ {
		g.Update(input.Controls{})
		for _, p := range g.projectiles {
			if p.Life < 0 || !g.bounds.Contains(p.X, p.Y) {
				t.Fatalf("frame %d: projectile %+v kept after expiry", i, *p)
			}
		}
	}
	if len(g.projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0 after leaving the area", len(g.projectiles))
	}
}

func TestRestartDuringLost(t *testing.T) {
	g, _ := runningGame(t)
	oldID := g.Session().ID
	g.session.Score = 700
	g.session.Status = StatusLost
	g.ship.X, g.ship.Y, g.ship.VX = 10, 10, 5
	g.projectiles = []*object.Projectile{{X: 1, Y: 1, Life: 4}}

	g.Restart()

	s := g.Session()
	if s.Status != StatusNotStarted || s.Score != 0 {
		t.Errorf("session = %+v, want not started with score 0", s)
	}
	if s.ID == oldID {
		t.Error("restart kept the old session ID")
	}
	if len(g.targets) != 15 {
		t.Errorf("targets = %d, want 15", len(g.targets))
	}
	if len(g.projectiles) != 0 {
		t.Errorf("projectiles = %d, want 0", len(g.projectiles))
	}
	if g.ship.X != 640 || g.ship.Y != 400 || g.ship.VX != 0 || g.ship.Invincible {
		t.Errorf("ship = %+v, want reset at center", *g.ship)
	}
}

func TestHeldControlsDoNotStartSessionAfterRestart(t *testing.T) {
	g, _ := runningGame(t)
	var controls input.State
	g.Subscribe(func(e Event) {
		if e.Type == EventSessionReset {
			controls.Suppress()
		}
	})

	controls.Keys.Set(input.Controls{Forward: true, Fire: true})
	g.Restart()

	g.Update(controls.Snapshot())
	if g.Session().Status != StatusNotStarted {
		t.Fatalf("status = %v, held keys started the new session", g.Session().Status)
	}

	controls.Keys.Set(input.Controls{})
	g.Update(controls.Snapshot())
	controls.Keys.Set(input.Controls{Fire: true})
	g.Update(controls.Snapshot())
	if g.Session().Status != StatusRunning {
		t.Errorf("status = %v, want running after a fresh press", g.Session().Status)
	}
}

func TestConfirmRestartsFinishedSession(t *testing.T) {
	g, _ := runningGame(t)
	g.session.Status = StatusWon

	g.Update(input.Controls{Forward: true})
	if g.Session().Status != StatusWon {
		t.Fatal("movement should not leave a finished session")
	}

	var rec recorder
	g.Subscribe(rec.listen)
	g.Update(input.Controls{Confirm: true})
	if g.Session().Status != StatusNotStarted {
		t.Errorf("status = %v, want not-started", g.Session().Status)
	}
	if got := rec.types(); len(got) != 1 || got[0] != EventSessionReset {
		t.Errorf("events = %v, want [session-reset]", got)
	}
}

func TestStaleInvincibilityNotAppliedAfterRestart(t *testing.T) {
	g, clock := newTestGame(t)
	g.Update(input.Controls{Left: true})

	clock.Advance(2 * time.Second)
	g.Restart()
	g.Update(input.Controls{Left: true})
	if g.timers.Pending() != 1 {
		t.Fatalf("pending timers = %d, want only the new window", g.timers.Pending())
	}

	// Past the first window's deadline, inside the second.
	clock.Advance(1500 * time.Millisecond)
	var rec recorder
	g.Subscribe(rec.listen)
	g.Update(input.Controls{})

	if !g.ship.Invincible {
		t.Error("old session's expiry revoked the new session's invincibility")
	}
	for _, e := range rec.events {
		if e.Type == EventInvincibilityEnded {
			t.Error("stale invincibility-ended event delivered")
		}
	}
}

func TestLossCancelsInvincibilityTimer(t *testing.T) {
	g, _ := newTestGame(t)
	g.Update(input.Controls{Left: true})
	g.ship.Invincible = false
	g.targets = []*object.Target{{X: g.ship.X, Y: g.ship.Y, Size: 30}}

	g.Update(input.Controls{})

	if g.Session().Status != StatusLost {
		t.Fatalf("status = %v, want lost", g.Session().Status)
	}
	if g.timers.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0 after loss", g.timers.Pending())
	}
}

func TestResizeIsDebounced(t *testing.T) {
	g, clock := newTestGame(t)

	g.Resize(800, 600)
	clock.Advance(100 * time.Millisecond)
	g.Resize(1024, 768)
	g.Update(input.Controls{})
	if g.Bounds() != (object.Bounds{Width: 1280, Height: 800}) {
		t.Fatalf("bounds = %+v, changed before the debounce elapsed", g.Bounds())
	}

	clock.Advance(249 * time.Millisecond)
	g.Update(input.Controls{})
	if g.Bounds().Width != 1280 {
		t.Fatal("resize applied early")
	}

	clock.Advance(time.Millisecond)
	g.Update(input.Controls{})
	if g.Bounds() != (object.Bounds{Width: 1024, Height: 768}) {
		t.Errorf("bounds = %+v, want 1024x768", g.Bounds())
	}
	if g.timers.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", g.timers.Pending())
	}
}

func TestResizeBeforeStartLaysOutField(t *testing.T) {
	g, clock := newTestGame(t)

	g.Resize(400, 300)
	clock.Advance(300 * time.Millisecond)
	g.Update(input.Controls{})

	b := g.Bounds()
	if b != (object.Bounds{Width: 400, Height: 300}) {
		t.Fatalf("bounds = %+v, want 400x300", b)
	}
	if g.ship.X != 200 || g.ship.Y != 150 {
		t.Errorf("ship at (%g, %g), want the new center (200, 150)", g.ship.X, g.ship.Y)
	}
	if len(g.targets) != g.cfg.TargetCount {
		t.Errorf("targets = %d, want %d", len(g.targets), g.cfg.TargetCount)
	}
	for i, tg := range g.targets {
		if !b.Contains(tg.X, tg.Y) {
			t.Errorf("target %d at (%g, %g) outside %+v", i, tg.X, tg.Y, b)
		}
	}

	g.Update(input.Controls{Forward: true})
	if !b.Contains(g.ship.X, g.ship.Y) {
		t.Errorf("ship at (%g, %g) outside %+v after the first move", g.ship.X, g.ship.Y, b)
	}
	if g.ship.X < 150 {
		t.Errorf("ship x = %g, want it near the center after one frame of thrust", g.ship.X)
	}
}

func TestResizeWhileRunningKeepsField(t *testing.T) {
	target := &object.Target{X: 900, Y: 700, Size: 40}
	g, clock := runningGame(t, target)

	g.Resize(800, 600)
	clock.Advance(250 * time.Millisecond)
	g.Update(input.Controls{})

	if len(g.targets) != 1 || g.targets[0] != target {
		t.Fatal("running field was respawned on resize")
	}
	b := g.Bounds()
	if !b.Contains(target.X, target.Y) {
		t.Errorf("target at (%g, %g) outside %+v after a step", target.X, target.Y, b)
	}
	if !b.Contains(g.ship.X, g.ship.Y) {
		t.Errorf("ship at (%g, %g) outside %+v after a step", g.ship.X, g.ship.Y, b)
	}
}

func TestResizeAfterLossClampsFrozenField(t *testing.T) {
	target := &object.Target{X: 1200, Y: 750, Size: 40}
	g, clock := runningGame(t, target)
	g.session.Status = StatusLost
	g.ship.X, g.ship.Y = 1000, 700

	g.Resize(800, 600)
	clock.Advance(250 * time.Millisecond)
	g.Update(input.Controls{})

	if g.ship.X != 800 || g.ship.Y != 600 {
		t.Errorf("ship at (%g, %g), want clamped to (800, 600)", g.ship.X, g.ship.Y)
	}
	if target.X != 800 || target.Y != 600 {
		t.Errorf("target at (%g, %g), want clamped to (800, 600)", target.X, target.Y)
	}
}

func TestResizeSurvivesRestart(t *testing.T) {
	g, clock := newTestGame(t)
	g.Resize(1024, 768)
	g.Restart()
	clock.Advance(250 * time.Millisecond)
	g.Update(input.Controls{})
	if g.Bounds().Width != 1024 {
		t.Errorf("width = %g, want 1024", g.Bounds().Width)
	}
}

func TestResizeIgnoresEmptyArea(t *testing.T) {
	g, clock := newTestGame(t)
	g.Resize(0, 600)
	clock.Advance(time.Second)
	g.Update(input.Controls{})
	if g.Bounds().Width != 1280 {
		t.Errorf("width = %g, want 1280", g.Bounds().Width)
	}
}

func TestEventSequence(t *testing.T) {
	g, clock := newTestGame(t)
	var rec recorder
	g.Subscribe(rec.listen)

	g.Update(input.Controls{Left: true})
	g.targets = []*object.Target{{X: 100, Y: 100, Size: 30, Variant: object.VariantComet}}
	g.projectiles = []*object.Projectile{{X: 100, Y: 100, Life: 10}}
	clock.Advance(config.TargetFrameTime)
	g.Update(input.Controls{})
	g.Update(input.Controls{Confirm: true})

	want := []EventType{EventSessionStarted, EventTargetDestroyed, EventSessionWon, EventSessionReset}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}

	destroyed := rec.events[1]
	if destroyed.Variant != object.VariantComet || destroyed.X != 100 || destroyed.Score != 100 || destroyed.Remaining != 0 {
		t.Errorf("target-destroyed event = %+v", destroyed)
	}
	if rec.events[0].Session != rec.events[2].Session {
		t.Error("events within one session carry different IDs")
	}
	if rec.events[3].Session == rec.events[0].Session {
		t.Error("reset event should carry the new session ID")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	g, clock := runningGame(t, &object.Target{X: 100, Y: 100, Size: 30})
	g.projectiles = []*object.Projectile{{X: 500, Y: 500, VX: 1, Life: 10}}
	clock.Advance(time.Second)

	s := g.Snapshot(nil)
	if s.Status != StatusRunning || s.TargetsLeft != 1 || len(s.Projectiles) != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.InvincibleRemaining != 2*time.Second {
		t.Errorf("InvincibleRemaining = %v, want 2s", s.InvincibleRemaining)
	}

	s.Targets[0].X = 999
	s.Ship.X = 999
	if g.targets[0].X != 100 || g.ship.X == 999 {
		t.Error("mutating the snapshot changed the game")
	}

	next := g.Snapshot(&s)
	if next.Targets[0].X != 100 {
		t.Errorf("reused snapshot target x = %g, want 100", next.Targets[0].X)
	}
}

func TestScoreMatchesDestroyedTargets(t *testing.T) {
	g, _ := newTestGame(t)
	g.Update(input.Controls{Left: true})

	destroyed := 0
	g.Subscribe(func(e Event) {
		if e.Type == EventTargetDestroyed {
			destroyed++
		}
	})
	for _, tg := range g.targets {
		tg.VX, tg.VY = 0, 0
	}
	// Drop a projectile onto a target each frame until the field is clear.
	for i := 0; i < 20 && g.Session().Status == StatusRunning; i++ {
		tg := g.targets[0]
		g.projectiles = append(g.projectiles, &object.Projectile{X: tg.X, Y: tg.Y, Life: 5})
		g.Update(input.Controls{})
		if g.Session().Score != destroyed*100 {
			t.Fatalf("score = %d after %d kills", g.Session().Score, destroyed)
		}
	}
	if g.Session().Status != StatusWon || destroyed != 15 {
		t.Errorf("status = %v destroyed = %d, want won after 15", g.Session().Status, destroyed)
	}
}
