// Package object holds the game entities and their per-frame kinematics.
//
// All motion is integrated in fixed one-frame steps; velocities are in
// pixels per frame and rotation speeds in radians per frame.
package object

// Bounds is the play area: x in [0, Width], y in [0, Height].
type Bounds struct {
	Width  float64
	Height float64
}

// CenterX returns the horizontal center of the area.
func (b Bounds) CenterX() float64 { return b.Width / 2 }

// CenterY returns the vertical center of the area.
func (b Bounds) CenterY() float64 { return b.Height / 2 }

// Contains reports whether (x, y) lies inside the area, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}

// WrapPosition teleports a point that crossed an edge to the opposite edge.
func (b Bounds) WrapPosition(x, y *float64) {
	if *x < 0 {
		*x = b.Width
	} else if *x > b.Width {
		*x = 0
	}
	if *y < 0 {
		*y = b.Height
	} else if *y > b.Height {
		*y = 0
	}
}

// Clamp moves a point outside the area onto the nearest edge.
func (b Bounds) Clamp(x, y *float64) {
	*x = clamp(*x, 0, b.Width)
	*y = clamp(*y, 0, b.Height)
}

// BouncePosition reflects the velocity component of each crossed edge and
// clamps the position back onto the edge.
func (b Bounds) BouncePosition(x, y, vx, vy *float64) {
	if *x < 0 || *x > b.Width {
		*vx = -*vx
		*x = clamp(*x, 0, b.Width)
	}
	if *y < 0 || *y > b.Height {
		*vy = -*vy
		*y = clamp(*y, 0, b.Height)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
