package object

import "math"

// Projectile is a bullet fired by the ship.
type Projectile struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	Life   int     // Frames remaining before removal
}

// NewProjectile creates a projectile at (x, y) travelling along angle at speed.
// Unlike the ship it does not inherit any momentum.
func NewProjectile(x, y, angle, speed float64, life int) *Projectile {
	return &Projectile{
		X:    x,
		Y:    y,
		VX:   math.Cos(angle) * speed,
		VY:   math.Sin(angle) * speed,
		Life: life,
	}
}

// Step moves the projectile and burns one frame of lifetime.
func (p *Projectile) Step() {
	p.X += p.VX
	p.Y += p.VY
	if p.Life > 0 {
		p.Life--
	}
}

// Expired reports whether the projectile ran out of lifetime or left the area.
func (p *Projectile) Expired(b Bounds) bool {
	return p.Life <= 0 || !b.Contains(p.X, p.Y)
}
