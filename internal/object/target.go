package object

// Target is a drifting space object the player must shoot.
type Target struct {
	X, Y          float64 // Position (center)
	VX, VY        float64 // Velocity
	Angle         float64 // Current rotation
	RotationSpeed float64 // Radians per frame
	Size          float64 // Collision diameter
	Variant       Variant
}

// Step moves and rotates the target, bouncing off the area edges.
func (t *Target) Step(b Bounds) {
	t.X += t.VX
	t.Y += t.VY
	t.Angle += t.RotationSpeed

	b.BouncePosition(&t.X, &t.Y, &t.VX, &t.VY)
}

// Radius returns half the collision diameter.
func (t *Target) Radius() float64 {
	return t.Size / 2
}
