package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/physics"
)

// Spawner places a batch of targets spread over the play area.
type Spawner struct {
	rng *rand.Rand
	cfg config.Spawn
}

// Placement is the result of one Place call.
type Placement struct {
	Targets []*Target
	// BestEffort lists indices into Targets whose spacing could not be
	// satisfied within the attempt budget; the last candidate was kept anyway.
	BestEffort []int
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng *rand.Rand, cfg config.Spawn) *Spawner {
	return &Spawner{rng: rng, cfg: cfg}
}

// Place creates count targets inside a width x height area.
//
// The area is cut into a ceil(sqrt(count)) square grid and target i is
// jittered inside cell i. A candidate is rejected when it is closer than the
// exclusion radius to the ship, or closer than (sizeA+sizeB)/2 + margin to any
// existing or already placed target. After MaxAttempts rejections the last
// candidate is accepted.
func (s *Spawner) Place(count int, width, height, shipX, shipY float64, existing []*Target) Placement {
	var out Placement
	if count <= 0 {
		return out
	}

	gridSize := int(math.Ceil(math.Sqrt(float64(count))))
	cellWidth := width / float64(gridSize)
	cellHeight := height / float64(gridSize)

	// Every target the candidate is tested against, indexed by the grid.
	placed := make([]*Target, 0, len(existing)+count)
	placed = append(placed, existing...)
	grid := physics.NewSpatialGrid(width, height, s.maxSpacing(existing))
	for i, t := range placed {
		grid.Insert(t.X, t.Y, i)
	}

	out.Targets = make([]*Target, 0, count)
	for i := 0; i < count; i++ {
		gridX := i % gridSize
		gridY := i / gridSize

		var candidate *Target
		ok := false
		attempts := max(s.cfg.MaxAttempts, 1)
		for attempt := 0; attempt < attempts && !ok; attempt++ {
			candidate = s.newTarget(i)
			candidate.X = float64(gridX)*cellWidth + s.rng.Float64()*cellWidth
			candidate.Y = float64(gridY)*cellHeight + s.rng.Float64()*cellHeight
			ok = s.fits(candidate, shipX, shipY, placed, grid)
		}
		if !ok {
			out.BestEffort = append(out.BestEffort, len(out.Targets))
		}

		grid.Insert(candidate.X, candidate.Y, len(placed))
		placed = append(placed, candidate)
		out.Targets = append(out.Targets, candidate)
	}

	return out
}

// newTarget rolls the size, motion and variant of the i-th target.
func (s *Spawner) newTarget(i int) *Target {
	angle := math.Mod(float64(i)*2.4+s.rng.Float64()*0.5, 2*math.Pi)
	speed := s.cfg.SpeedMin + s.rng.Float64()*(s.cfg.SpeedMax-s.cfg.SpeedMin)

	return &Target{
		VX:            math.Cos(angle) * speed,
		VY:            math.Sin(angle) * speed,
		Angle:         s.rng.Float64() * 2 * math.Pi,
		RotationSpeed: (s.rng.Float64() - 0.5) * 0.02,
		Size:          s.cfg.SizeMin + s.rng.Float64()*(s.cfg.SizeMax-s.cfg.SizeMin),
		Variant:       Variant(s.rng.Intn(VariantCount)),
	}
}

// fits reports whether the candidate respects the ship exclusion radius and
// the spacing to every placed target.
func (s *Spawner) fits(c *Target, shipX, shipY float64, placed []*Target, grid *physics.SpatialGrid) bool {
	if physics.Within(c.X, c.Y, shipX, shipY, s.cfg.ExclusionRadius) {
		return false
	}

	free := true
	grid.QueryAround(c.X, c.Y, func(j int) bool {
		other := placed[j]
		if physics.Within(c.X, c.Y, other.X, other.Y, s.MinSpacing(c, other)) {
			free = false
			return true
		}
		return false
	})
	return free
}

// MinSpacing is the smallest allowed center distance between two targets.
func (s *Spawner) MinSpacing(a, b *Target) float64 {
	return (a.Size+b.Size)/2 + s.cfg.Margin
}

// maxSpacing bounds MinSpacing for any pair, used as the grid cell size.
func (s *Spawner) maxSpacing(existing []*Target) float64 {
	size := s.cfg.SizeMax
	for _, t := range existing {
		size = math.Max(size, t.Size)
	}
	return size + s.cfg.Margin
}
