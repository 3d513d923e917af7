package pathfinding

import (
	"math"
	"wayfinder/internal/core"

	"gonum.org/v1/gonum/spatial/r3"
)

// 3D heuristic functions for graph search. Edge costs are Euclidean lengths,
// so only EuclideanDistance3D and ZeroDistance3D keep A* optimal; the others
// are kept for callers that trade optimality for fewer expansions.

// EuclideanDistance3D calculates Euclidean distance between two 3D points
func EuclideanDistance3D(a, b core.Vector3D) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// SquaredDistance3D avoids the square root when only ordering matters
func SquaredDistance3D(a, b core.Vector3D) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// ZeroDistance3D turns A* into Dijkstra's algorithm
func ZeroDistance3D(_, _ core.Vector3D) float64 {
	return 0
}

// ManhattanDistance3D calculates Manhattan distance between two 3D points
func ManhattanDistance3D(a, b core.Vector3D) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) + math.Abs(a.Z-b.Z)
}

// ChebyshevDistance3D calculates Chebyshev distance (max of axis distances)
func ChebyshevDistance3D(a, b core.Vector3D) float64 {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)
	dz := math.Abs(a.Z - b.Z)
	return math.Max(dx, math.Max(dy, dz))
}

// ClosestPointOnSegment projects p onto the closed segment ab.
// It returns the projected point, the clamped parameter t and false when the
// segment is degenerate (squared length below DegenerateEdgeEpsilon).
func ClosestPointOnSegment(p, a, b core.Vector3D) (core.Vector3D, float64, bool) {
	ab := r3.Sub(b, a)
	abLen2 := r3.Norm2(ab)
	if abLen2 < DegenerateEdgeEpsilon {
		return a, 0, false
	}

	t := r3.Dot(r3.Sub(p, a), ab) / abLen2
	t = math.Max(0, math.Min(1, t))

	return r3.Add(a, r3.Scale(t, ab)), t, true
}

// Lerp3D linearly interpolates between two 3D vectors
func Lerp3D(a, b core.Vector3D, t float64) core.Vector3D {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
