package object

// Variant is the visual kind of a target, picked at spawn from a fixed palette.
// It has no effect on the simulation.
type Variant int

const (
	VariantUFO Variant = iota
	VariantMoon
	VariantStar
	VariantRingedPlanet
	VariantComet
	VariantRocket
	VariantSatellite
	VariantAlien
	VariantGlowingStar
	VariantDizzy

	// VariantCount is the palette size.
	VariantCount = int(VariantDizzy) + 1
)

var variantNames = [VariantCount]string{
	"ufo", "moon", "star", "ringed-planet", "comet",
	"rocket", "satellite", "alien", "glowing-star", "dizzy",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= VariantCount {
		return "unknown"
	}
	return variantNames[v]
}
