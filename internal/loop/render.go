package loop

import (
	"math"
	"time"

	"github.com/tomz197/starblaster/internal/draw"
	"github.com/tomz197/starblaster/internal/game"
	"github.com/tomz197/starblaster/internal/object"
)

// blinkHz is how fast the ship flashes while invincible.
const blinkHz = 5.0

// blinkVisible reports whether an invincible ship is drawn this frame.
// A ship without protection is always visible.
func blinkVisible(remaining time.Duration, hz float64) bool {
	if remaining <= 0 {
		return true
	}
	phase := int(remaining.Seconds() * hz)
	return phase%2 != 0
}

// drawWorld plots every entity of the snapshot onto the canvas.
func drawWorld(c *draw.Canvas, s *game.Snapshot) {
	for i := range s.Targets {
		drawTarget(c, &s.Targets[i])
	}
	for i := range s.Projectiles {
		drawProjectile(c, &s.Projectiles[i])
	}
	if s.Status != game.StatusLost && blinkVisible(s.InvincibleRemaining, blinkHz) {
		drawShip(c, &s.Ship)
	}
}

// drawShip draws the ship as a filled triangle pointing along its heading.
func drawShip(c *draw.Canvas, ship *object.Ship) {
	r := ship.Size / 2
	left := ship.Angle + 2.5 // ~143 degrees off the nose
	right := ship.Angle - 2.5

	noseX, noseY := ship.Nose()
	points := c.BorrowPoints(3)
	points[0] = draw.Point{X: noseX, Y: noseY}
	points[1] = draw.Point{X: ship.X + math.Cos(left)*r*0.7, Y: ship.Y + math.Sin(left)*r*0.7}
	points[2] = draw.Point{X: ship.X + math.Cos(right)*r*0.7, Y: ship.Y + math.Sin(right)*r*0.7}
	c.DrawPolygon(points, true)
}

// targetSides is the outline used per variant. Zero draws a circle and a
// negative count draws a star with that many points.
func targetSides(v object.Variant) int {
	switch v {
	case object.VariantRocket:
		return 3
	case object.VariantSatellite:
		return 4
	case object.VariantAlien:
		return 6
	case object.VariantStar, object.VariantGlowingStar:
		return -5
	default:
		return 0
	}
}

// drawTarget outlines a target at its collision radius with a spoke showing its rotation.
func drawTarget(c *draw.Canvas, t *object.Target) {
	r := t.Radius()

	switch sides := targetSides(t.Variant); {
	case sides == 0:
		c.DrawCircle(t.X, t.Y, r)
	case sides > 0:
		points := c.BorrowPoints(sides)
		for i := range points {
			a := t.Angle + float64(i)*2*math.Pi/float64(sides)
			points[i] = draw.Point{X: t.X + math.Cos(a)*r, Y: t.Y + math.Sin(a)*r}
		}
		c.DrawPolygon(points, false)
	default:
		n := -sides * 2
		points := c.BorrowPoints(n)
		for i := range points {
			a := t.Angle + float64(i)*math.Pi/float64(-sides)
			pr := r
			if i%2 == 1 {
				pr = r * 0.45
			}
			points[i] = draw.Point{X: t.X + math.Cos(a)*pr, Y: t.Y + math.Sin(a)*pr}
		}
		c.DrawPolygon(points, false)
	}

	if t.Variant == object.VariantRingedPlanet {
		c.DrawLine(
			draw.Point{X: t.X - r*1.4, Y: t.Y},
			draw.Point{X: t.X + r*1.4, Y: t.Y},
		)
	}
	c.DrawLine(
		draw.Point{X: t.X, Y: t.Y},
		draw.Point{X: t.X + math.Cos(t.Angle)*r, Y: t.Y + math.Sin(t.Angle)*r},
	)
}

// drawProjectile draws a bullet with a one-pixel tail.
func drawProjectile(c *draw.Canvas, p *object.Projectile) {
	c.SetFloat(p.X, p.Y)
	c.SetFloat(p.X-p.VX*0.5, p.Y-p.VY*0.5)
}
