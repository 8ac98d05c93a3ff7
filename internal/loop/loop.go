// Package loop drives one game session on an ANSI terminal: it polls
// keyboard bytes, advances the game at a fixed frame rate and renders the
// result with half-block graphics and text overlays.
package loop

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/draw"
	"github.com/tomz197/starblaster/internal/game"
	"github.com/tomz197/starblaster/internal/input"
)

// ErrIdle is returned by Run when the player sent no input for IdleTimeout.
var ErrIdle = errors.New("session idle")

// maxIdleWarning caps how long before an idle disconnect the warning shows.
const maxIdleWarning = 15 * time.Second

// Options configures a terminal session.
type Options struct {
	Config       config.Config
	TermSizeFunc draw.TermSizeFunc  // Defaults to the local terminal
	Renderer     *lipgloss.Renderer // Defaults to a renderer detecting the output's colors
	Logger       *log.Logger        // Defaults to discarding
	IdleTimeout  time.Duration      // Zero never disconnects
}

// driver owns everything one terminal session touches. It is used only from
// the goroutine running Run.
type driver struct {
	game     *game.Game
	logger   *log.Logger
	stream   *input.Stream
	controls input.State

	canvas        *draw.Canvas
	cw            *draw.ChunkWriter
	viewport      draw.Viewport
	termSize      draw.TermSizeFunc
	styles        styles
	borderPending bool

	sparks     *particles
	snap       game.Snapshot
	prevStatus game.Status
	resetKeys  bool
	frame      uint64

	now         time.Time // Start of the current frame
	lastInput   time.Time
	idleTimeout time.Duration
	idle        bool
}

// Run plays one session until the player quits, the input stream closes,
// the session idles out or ctx is cancelled. The loop is fixed-step: input,
// then update, then draw, once per frame.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	g, err := game.New(opts.Config, game.Options{})
	if err != nil {
		return err
	}

	d := newDriver(g, w, opts)
	d.stream = input.StartStream(r)
	return d.run(ctx)
}

func newDriver(g *game.Game, w io.Writer, opts Options) *driver {
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	now := time.Now()
	bounds := g.Bounds()
	d := &driver{
		game:        g,
		logger:      logger,
		canvas:      draw.NewScaledCanvas(0, 0, bounds.Width, bounds.Height),
		cw:          draw.NewChunkWriter(w),
		termSize:    termSize,
		styles:      newStyles(renderer),
		sparks:      newParticles(rand.New(rand.NewSource(now.UnixNano()))),
		prevStatus:  g.Session().Status,
		now:         now,
		lastInput:   now,
		idleTimeout: opts.IdleTimeout,
	}
	g.Subscribe(d.onEvent)
	return d
}

func (d *driver) run(ctx context.Context) error {
	draw.HideCursor(d.cw)
	d.fullClear()
	defer func() {
		draw.ClearScreen(d.cw)
		draw.ShowCursor(d.cw)
		_ = d.cw.Flush()
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		frameStart := time.Now()

		done, err := d.step(frameStart)
		if done || err != nil {
			return err
		}

		wait := config.TargetFrameTime - time.Since(frameStart)
		if wait <= 0 {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// step runs one frame. It reports true once the session should end.
func (d *driver) step(now time.Time) (bool, error) {
	d.now = now

	inp := input.ReadInput(d.stream)
	if inp.Quit {
		d.logger.Debug("player quit", "session", d.game.Session().ID)
		return true, nil
	}
	if len(inp.Pressed) > 0 {
		d.lastInput = now
	}
	if err := d.checkIdle(); err != nil {
		return true, err
	}

	if inp.Restart {
		d.game.Restart()
	} else {
		d.controls.Keys.Set(inp.Controls)
		d.game.Update(d.controls.Snapshot())
	}
	if d.resetKeys {
		// Keys held across a restart must not start the next session.
		d.stream.ResetKeys()
		d.controls.Keys.Set(input.Controls{})
		d.resetKeys = false
	}

	d.sparks.step()
	d.updateScreen()
	return false, d.drawFrame()
}

func (d *driver) sinceInput() time.Duration {
	return d.now.Sub(d.lastInput)
}

// checkIdle toggles the inactivity warning and fails once the timeout passes.
func (d *driver) checkIdle() error {
	if d.idleTimeout <= 0 {
		return nil
	}
	since := d.sinceInput()
	if since >= d.idleTimeout {
		d.logger.Info("disconnecting idle session", "session", d.game.Session().ID, "idle", since.Round(time.Second))
		return ErrIdle
	}
	idle := since >= d.idleTimeout-min(maxIdleWarning, d.idleTimeout/2)
	if idle != d.idle {
		d.idle = idle
		d.fullClear()
	}
	return nil
}

// updateScreen follows terminal resizes, clamping to the max render area.
func (d *driver) updateScreen() {
	width, height, err := d.termSize()
	if err != nil {
		d.logger.Debug("terminal size unavailable", "err", err)
		return
	}
	v := draw.FitViewport(width, height, config.MaxTermWidth, config.MaxTermHeight)
	if v == d.viewport {
		return
	}
	d.logger.Debug("terminal resized", "width", width, "height", height)
	d.viewport = v
	d.canvas.Resize(v.Width, v.Height)
	d.cw.SetOffset(v.OffsetCol, v.OffsetRow)
	d.fullClear()
}

// fullClear wipes the terminal and schedules a complete repaint.
func (d *driver) fullClear() {
	draw.ClearScreen(d.cw)
	d.canvas.ForceRedraw()
	d.borderPending = true
}

// drawFrame renders the current snapshot, particles and overlay.
func (d *driver) drawFrame() error {
	d.snap = d.game.Snapshot(&d.snap)
	if d.snap.Status != d.prevStatus {
		// Overlays differ per status; start from a blank screen.
		d.prevStatus = d.snap.Status
		d.fullClear()
	}

	d.canvas.SetLogicalSize(d.snap.Bounds.Width, d.snap.Bounds.Height)
	d.canvas.Clear()
	drawWorld(d.canvas, &d.snap)
	d.sparks.draw(d.canvas)
	d.canvas.Render(d.cw)

	if d.borderPending {
		d.canvas.RenderBorder(d.cw, d.viewport)
		d.borderPending = false
	}

	d.drawUI()
	d.frame++
	return d.cw.Flush()
}

// onEvent reacts to game lifecycle events. It runs inside game.Update.
func (d *driver) onEvent(e game.Event) {
	d.logger.Debug("game event", "type", e.Type, "session", e.Session, "score", e.Score, "remaining", e.Remaining)

	switch e.Type {
	case game.EventSessionStarted:
		d.logger.Info("session started", "session", e.Session)
	case game.EventTargetDestroyed:
		d.sparks.explode(e.X, e.Y, 12, 4, 30)
	case game.EventSessionWon:
		d.logger.Info("session won", "session", e.Session, "score", e.Score)
	case game.EventSessionLost:
		d.sparks.explode(e.X, e.Y, 40, 6, 60)
		d.logger.Info("session lost", "session", e.Session, "score", e.Score, "remaining", e.Remaining)
	case game.EventSessionReset:
		d.sparks.reset()
		d.resetKeys = true
	}
}
