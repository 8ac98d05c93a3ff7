// Package physics provides distance tests and a broad-phase grid.
package physics

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Within reports whether two points are strictly closer than dist.
// A point exactly dist away is not within.
func Within(x1, y1, x2, y2, dist float64) bool {
	return DistanceSquared(x1, y1, x2, y2) < dist*dist
}
