package input

import "math"

// TouchPoint is one active touch in screen pixels.
type TouchPoint struct {
	X, Y float64
}

// Button is a circular on-screen control.
type Button struct {
	Control Control
	Label   string
	X, Y    float64 // Center
	R       float64 // Radius
}

// Contains reports whether (x, y) falls inside the button.
func (b Button) Contains(x, y float64) bool {
	return math.Hypot(x-b.X, y-b.Y) <= b.R
}

// TouchPad maps touches onto on-screen buttons: a direction cross in the
// bottom-left corner and a fire button in the bottom-right.
type TouchPad struct {
	Buttons []Button
}

// NewTouchPad lays out the buttons for a width x height screen.
func NewTouchPad(width, height float64) TouchPad {
	r := min(max(min(width, height)*0.06, 24), 60)
	gap := r * 2.2
	baseX := r * 1.5
	baseY := height - r*1.5

	return TouchPad{Buttons: []Button{
		{Control: Left, Label: "<", X: baseX, Y: baseY, R: r},
		{Control: Back, Label: "v", X: baseX + gap, Y: baseY, R: r},
		{Control: Right, Label: ">", X: baseX + 2*gap, Y: baseY, R: r},
		{Control: Forward, Label: "^", X: baseX + gap, Y: baseY - gap, R: r},
		{Control: Fire, Label: "FIRE", X: width - r*2, Y: baseY - gap/2, R: r * 1.4},
	}}
}

// Hit returns the control under (x, y), if any.
func (p TouchPad) Hit(x, y float64) (Control, bool) {
	for _, b := range p.Buttons {
		if b.Contains(x, y) {
			return b.Control, true
		}
	}
	return 0, false
}

// Controls returns every control held by the given touches.
func (p TouchPad) Controls(points []TouchPoint) Controls {
	var c Controls
	for _, pt := range points {
		if ctrl, ok := p.Hit(pt.X, pt.Y); ok {
			c = c.With(ctrl, true)
		}
	}
	return c
}
