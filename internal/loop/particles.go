package loop

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/starblaster/internal/draw"
)

// particlePool recycles particles between explosions.
var particlePool = sync.Pool{
	New: func() any {
		return &particle{}
	},
}

// particle is a short-lived spark. It is purely cosmetic and never touches
// the simulation.
type particle struct {
	x, y    float64 // Logical position
	vx, vy  float64 // Pixels per frame
	life    int     // Frames remaining
	maxLife int
	drag    float64 // Velocity multiplier per frame
}

// particles owns every live spark for one terminal session.
type particles struct {
	rng  *rand.Rand
	live []*particle
}

func newParticles(rng *rand.Rand) *particles {
	return &particles{rng: rng}
}

// explode spawns count sparks in a circular burst. Speed and lifetime are
// randomized between 50% and 150% (speed) and 50% and 100% (life).
func (ps *particles) explode(x, y float64, count int, speed float64, life int) {
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + ps.rng.Float64())
		frames := max(int(float64(life)*(0.5+ps.rng.Float64()*0.5)), 1)

		p := particlePool.Get().(*particle)
		*p = particle{
			x:       x,
			y:       y,
			vx:      math.Cos(angle) * spd,
			vy:      math.Sin(angle) * spd,
			life:    frames,
			maxLife: frames,
			drag:    0.95,
		}
		ps.live = append(ps.live, p)
	}
}

// step advances every spark one frame and releases the expired ones.
func (ps *particles) step() {
	kept := ps.live[:0]
	for _, p := range ps.live {
		p.life--
		if p.life <= 0 {
			particlePool.Put(p)
			continue
		}
		p.vx *= p.drag
		p.vy *= p.drag
		p.x += p.vx
		p.y += p.vy
		kept = append(kept, p)
	}
	clear(ps.live[len(kept):])
	ps.live = kept
}

// reset drops every spark.
func (ps *particles) reset() {
	for _, p := range ps.live {
		particlePool.Put(p)
	}
	clear(ps.live)
	ps.live = ps.live[:0]
}

// draw plots sparks that still have at least a quarter of their life left.
func (ps *particles) draw(c *draw.Canvas) {
	for _, p := range ps.live {
		if p.life*4 < p.maxLife {
			continue
		}
		c.SetFloat(p.x, p.y)
	}
}

func (ps *particles) len() int {
	return len(ps.live)
}
