package object

import (
	"math"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/input"
)

// Ship is the player-controlled ship.
type Ship struct {
	X, Y   float64 // Position (center of ship)
	VX, VY float64 // Velocity (momentum)
	Angle  float64 // Heading in radians (0 = pointing right, increases clockwise on screen)

	Size       float64 // Collision diameter
	Invincible bool    // Ship-target collisions are ignored while set

	Accel    float64 // Velocity added per frame of forward thrust
	Friction float64 // Velocity multiplier applied every frame
	MaxSpeed float64 // Maximum velocity magnitude
	TurnStep float64 // Radians turned per frame
}

// NewShip creates a ship at rest at the given position, pointing right.
func NewShip(cfg config.Ship, x, y float64) *Ship {
	return &Ship{
		X:        x,
		Y:        y,
		Size:     cfg.Size,
		Accel:    cfg.Accel,
		Friction: cfg.Friction,
		MaxSpeed: cfg.MaxSpeed,
		TurnStep: cfg.TurnStep,
	}
}

// Reset puts the ship back at (x, y), stopped, facing right and vulnerable.
func (s *Ship) Reset(x, y float64) {
	s.X, s.Y = x, y
	s.VX, s.VY = 0, 0
	s.Angle = 0
	s.Invincible = false
}

// Speed returns the velocity magnitude.
func (s *Ship) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

// Step advances the ship one frame: thrust, rotation, friction, speed clamp,
// integration and toroidal wrap.
func (s *Ship) Step(ctrl input.Controls, b Bounds) {
	if ctrl.Forward {
		s.VX += math.Cos(s.Angle) * s.Accel
		s.VY += math.Sin(s.Angle) * s.Accel
	}
	if ctrl.Back {
		s.VX -= math.Cos(s.Angle) * s.Accel * 0.5
		s.VY -= math.Sin(s.Angle) * s.Accel * 0.5
	}
	if ctrl.Left {
		s.Angle -= s.TurnStep
	}
	if ctrl.Right {
		s.Angle += s.TurnStep
	}

	s.VX *= s.Friction
	s.VY *= s.Friction

	// Clamp to max speed
	if speed := s.Speed(); speed > s.MaxSpeed {
		scale := s.MaxSpeed / speed
		s.VX *= scale
		s.VY *= scale
	}

	s.X += s.VX
	s.Y += s.VY

	b.WrapPosition(&s.X, &s.Y)
}

// Nose returns the point at the front of the ship.
func (s *Ship) Nose() (float64, float64) {
	return s.X + math.Cos(s.Angle)*s.Size/2, s.Y + math.Sin(s.Angle)*s.Size/2
}
