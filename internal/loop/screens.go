package loop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/starblaster/internal/game"
)

// styles holds the overlay styles, bound to the renderer of one terminal.
type styles struct {
	title  lipgloss.Style
	hint   lipgloss.Style
	hud    lipgloss.Style
	shield lipgloss.Style
	lost   lipgloss.Style
	won    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c542")),
		hint:   r.NewStyle().Faint(true),
		hud:    r.NewStyle().Foreground(lipgloss.Color("#c0c0c0")),
		shield: r.NewStyle().Foreground(lipgloss.Color("#00d7ff")),
		lost:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000")),
		won:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00")),
	}
}

// drawUI draws the overlay for the current status.
func (d *driver) drawUI() {
	width := d.canvas.TerminalWidth()
	height := d.canvas.TerminalHeight()
	centerX := width / 2
	centerY := height / 2

	if d.idle {
		d.drawIdleScreen(centerX, centerY)
		return
	}

	switch d.snap.Status {
	case game.StatusNotStarted:
		d.drawStartScreen(centerX, centerY)
	case game.StatusRunning:
		d.drawPlayingHUD(width, height)
	case game.StatusWon:
		d.drawPlayingHUD(width, height)
		d.drawEndScreen(centerX, centerY, d.styles.won.Render("CONGRATULATIONS!"))
	case game.StatusLost:
		d.drawPlayingHUD(width, height)
		d.drawEndScreen(centerX, centerY, d.styles.lost.Render("GAME OVER"))
	}
}

// drawStartScreen draws the title screen.
func (d *driver) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		` ___ _____ _   ___ ___ _      _   ___ _____ ___ ___ `,
		`/ __|_   _/_\ | _ \ _ ) |    /_\ / __|_   _| __| _ \`,
		`\__ \ | |/ _ \|   / _ \ |__ / _ \\__ \ | | | _||   /`,
		`|___/ |_/_/ \_\_|_\___/____/_/ \_\___/ |_| |___|_|_\`,
	}
	titleWidth := lipgloss.Width(titleArt[0])
	startY := centerY - 6
	for i, line := range titleArt {
		d.text(centerX-titleWidth/2, startY+i, d.styles.title.Render(line))
	}

	controlsY := startY + len(titleArt) + 2
	d.centered(centerX, controlsY, "Controls")
	controlLines := []string{
		"W / Up  . . . . Thrust",
		"S / Down . . . Reverse",
		"A D / < >  . .  Rotate",
		"SPACE  . . . . . Shoot",
		"R  . . . . . . Restart",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		d.centered(centerX, controlsY+1+i, line)
	}

	promptY := controlsY + len(controlLines) + 2
	if d.frame/36%2 == 0 {
		d.centered(centerX, promptY, ">>  Move or shoot to start  <<")
	}
}

// drawPlayingHUD draws the score and target count. Values are padded so a
// shrinking number leaves no residue.
func (d *driver) drawPlayingHUD(width, height int) {
	d.text(2, 1, d.styles.hud.Render(fmt.Sprintf("Score: %-8d", d.snap.Score)))

	targets := fmt.Sprintf("Targets: %-3d", d.snap.TargetsLeft)
	d.text(width-len(targets)-1, 1, d.styles.hud.Render(targets))

	if d.snap.InvincibleRemaining > 0 {
		shield := fmt.Sprintf("Shield %.1fs", d.snap.InvincibleRemaining.Seconds())
		d.text(2, height, d.styles.shield.Render(shield))
	}
}

// drawEndScreen draws the result banner and restart hint.
func (d *driver) drawEndScreen(centerX, centerY int, banner string) {
	d.text(centerX-lipgloss.Width(banner)/2, centerY-2, banner)
	d.centered(centerX, centerY, fmt.Sprintf("Final score: %d", d.snap.Score))
	d.centered(centerX, centerY+2, d.styles.hint.Render("Press ENTER to restart"))
}

// drawIdleScreen warns before an idle session is closed.
func (d *driver) drawIdleScreen(centerX, centerY int) {
	left := max(d.idleTimeout-d.sinceInput(), 0)
	d.centered(centerX, centerY-2, d.styles.lost.Render("INACTIVITY WARNING"))
	d.centered(centerX, centerY, fmt.Sprintf("Disconnecting in %2d seconds", int(left.Round(time.Second).Seconds())))
	d.centered(centerX, centerY+2, d.styles.hint.Render("Press any key to continue"))
}

// text writes an overlay and marks its cells for repaint on the next frame,
// so overlays that move or vanish leave nothing behind.
func (d *driver) text(col, row int, s string) {
	d.cw.WriteAt(col, row, s)
	d.canvas.Invalidate(col, row, lipgloss.Width(s))
}

func (d *driver) centered(centerX, row int, s string) {
	d.text(centerX-lipgloss.Width(s)/2, row, s)
}
