// Package desktop runs the game in an ebiten window with keyboard and
// on-screen touch controls.
package desktop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/starblaster/internal/game"
	"github.com/tomz197/starblaster/internal/input"
	"github.com/tomz197/starblaster/internal/object"
)

var (
	background = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}
	shipColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	shieldTint = color.RGBA{0x00, 0xd7, 0xff, 0xff}
	bulletTint = color.RGBA{0x00, 0xff, 0xff, 0xff}
	padColor   = color.RGBA{0xff, 0xff, 0xff, 0x50}
)

// variantColors gives each target variant its own outline color.
var variantColors = [object.VariantCount]color.RGBA{
	{0x9e, 0xe4, 0x93, 0xff}, // ufo
	{0xd0, 0xd0, 0xd0, 0xff}, // moon
	{0xff, 0xe0, 0x66, 0xff}, // star
	{0xe0, 0xa0, 0x60, 0xff}, // ringed planet
	{0x80, 0xc0, 0xff, 0xff}, // comet
	{0xff, 0x70, 0x70, 0xff}, // rocket
	{0xb0, 0xb0, 0xff, 0xff}, // satellite
	{0x70, 0xff, 0x70, 0xff}, // alien
	{0xff, 0xff, 0xb0, 0xff}, // glowing star
	{0xff, 0x90, 0xff, 0xff}, // dizzy
}

// App adapts a Game to ebiten.Game.
type App struct {
	game   *game.Game
	logger *log.Logger

	controls input.State
	pad      input.TouchPad
	touchIDs []ebiten.TouchID
	touches  []input.TouchPoint

	snap          game.Snapshot
	width, height int
	banner        string
}

// New creates an App around g and subscribes it to g's events.
func New(g *game.Game, logger *log.Logger) *App {
	a := &App{game: g, logger: logger}
	g.Subscribe(a.onEvent)
	return a
}

// Update polls the keyboard and touches and advances one frame.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	a.controls.Keys.Set(readKeys())
	a.controls.Touch.Set(a.pad.Controls(a.readTouches()))

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.game.Restart()
		return nil
	}
	a.game.Update(a.controls.Snapshot())
	return nil
}

func readKeys() input.Controls {
	held := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	return input.Controls{
		Forward: held(ebiten.KeyW, ebiten.KeyArrowUp),
		Back:    held(ebiten.KeyS, ebiten.KeyArrowDown),
		Left:    held(ebiten.KeyA, ebiten.KeyArrowLeft),
		Right:   held(ebiten.KeyD, ebiten.KeyArrowRight),
		Fire:    held(ebiten.KeySpace),
		Confirm: held(ebiten.KeyEnter, ebiten.KeyNumpadEnter),
	}
}

// readTouches collects active touches; a held left mouse button counts as one.
func (a *App) readTouches() []input.TouchPoint {
	a.touches = a.touches[:0]
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		x, y := ebiten.TouchPosition(id)
		a.touches = append(a.touches, input.TouchPoint{X: float64(x), Y: float64(y)})
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.touches = append(a.touches, input.TouchPoint{X: float64(x), Y: float64(y)})
	}
	return a.touches
}

// Layout follows the window size. The play area is resized through the
// game's debounce, so a drag-resize settles before targets are clamped.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.pad = input.NewTouchPad(float64(outsideWidth), float64(outsideHeight))
		a.game.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Draw renders the latest snapshot.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	a.snap = a.game.Snapshot(&a.snap)

	// The area lags the window during the resize debounce.
	sx := float64(a.width) / a.snap.Bounds.Width
	sy := float64(a.height) / a.snap.Bounds.Height

	for i := range a.snap.Targets {
		drawTarget(screen, &a.snap.Targets[i], sx, sy)
	}
	for _, p := range a.snap.Projectiles {
		vector.DrawFilledCircle(screen, float32(p.X*sx), float32(p.Y*sy), 2.5, bulletTint, true)
	}
	if a.snap.Status != game.StatusLost {
		drawShip(screen, &a.snap.Ship, sx, sy, a.snap.InvincibleRemaining > 0)
	}

	a.drawPad(screen)
	a.drawHUD(screen)
}

func drawTarget(dst *ebiten.Image, t *object.Target, sx, sy float64) {
	c := variantColors[int(t.Variant)%object.VariantCount]
	x, y := float32(t.X*sx), float32(t.Y*sy)
	r := float32(t.Radius() * math.Min(sx, sy))

	vector.StrokeCircle(dst, x, y, r, 2, c, true)
	vector.StrokeLine(dst, x, y, x+r*float32(math.Cos(t.Angle)), y+r*float32(math.Sin(t.Angle)), 1, c, true)
}

// drawShip draws the ship as a triangle outline along its heading.
func drawShip(dst *ebiten.Image, s *object.Ship, sx, sy float64, shielded bool) {
	r := s.Size / 2
	pt := func(angle, dist float64) (float32, float32) {
		return float32((s.X + math.Cos(angle)*dist) * sx), float32((s.Y + math.Sin(angle)*dist) * sy)
	}
	noseX, noseY := s.Nose()
	nx, ny := float32(noseX*sx), float32(noseY*sy)
	lx, ly := pt(s.Angle+2.5, r*0.7)
	rx, ry := pt(s.Angle-2.5, r*0.7)

	c := color.Color(shipColor)
	if shielded {
		c = shieldTint
		vector.StrokeCircle(dst, float32(s.X*sx), float32(s.Y*sy), float32(r*1.2*math.Min(sx, sy)), 1, shieldTint, true)
	}
	vector.StrokeLine(dst, nx, ny, lx, ly, 2, c, true)
	vector.StrokeLine(dst, lx, ly, rx, ry, 2, c, true)
	vector.StrokeLine(dst, rx, ry, nx, ny, 2, c, true)
}

func (a *App) drawPad(dst *ebiten.Image) {
	for _, b := range a.pad.Buttons {
		vector.StrokeCircle(dst, float32(b.X), float32(b.Y), float32(b.R), 2, padColor, true)
		ebitenutil.DebugPrintAt(dst, b.Label, int(b.X)-3*len(b.Label), int(b.Y)-8)
	}
}

func (a *App) drawHUD(dst *ebiten.Image) {
	hud := fmt.Sprintf("Score: %d   Targets: %d", a.snap.Score, a.snap.TargetsLeft)
	if a.snap.InvincibleRemaining > 0 {
		hud += fmt.Sprintf("   Shield %.1fs", a.snap.InvincibleRemaining.Seconds())
	}
	ebitenutil.DebugPrintAt(dst, hud, 8, 8)

	var msg string
	switch a.snap.Status {
	case game.StatusNotStarted:
		msg = "Move or shoot to start  (WASD / arrows, SPACE, R restart)"
	case game.StatusWon, game.StatusLost:
		msg = a.banner + "   Press ENTER to restart"
	}
	if msg != "" {
		ebitenutil.DebugPrintAt(dst, msg, a.width/2-len(msg)*3, a.height/2)
	}
}

func (a *App) onEvent(e game.Event) {
	switch e.Type {
	case game.EventSessionReset:
		// Keys held through the restart must not start the new session.
		a.controls.Suppress()
		a.logger.Debug("session reset", "session", e.Session)
	case game.EventSessionWon:
		a.banner = "CONGRATULATIONS!"
		a.logger.Info("session won", "session", e.Session, "score", e.Score)
	case game.EventSessionLost:
		a.banner = "GAME OVER"
		a.logger.Info("session lost", "session", e.Session, "score", e.Score)
	default:
		a.logger.Debug("game event", "type", e.Type, "session", e.Session)
	}
}
