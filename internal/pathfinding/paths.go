package pathfinding

import (
	"math"
	"wayfinder/internal/core"
)

// PathLength sums the segment lengths of path. Paths with fewer than two
// nodes have no length and report +Inf.
func PathLength(path core.Path) float64 {
	if len(path) < 2 {
		return math.Inf(1)
	}

	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += EuclideanDistance3D(path[i].Position, path[i+1].Position)
	}
	return total
}

// RouteCost returns the travel distance of a route that starts at from and
// then follows path. A single-node path costs only the lead-in; an empty
// path is unreachable.
func RouteCost(from core.Vector3D, path core.Path) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}

	total := EuclideanDistance3D(from, path[0].Position)
	for i := 0; i < len(path)-1; i++ {
		total += EuclideanDistance3D(path[i].Position, path[i+1].Position)
	}
	return total
}

// CombinePaths concatenates first and second. When first ends on the node
// second begins with, that node appears once. If one side is empty the other
// is returned; the result never aliases either input.
func CombinePaths(first, second core.Path) core.Path {
	if len(first) == 0 && len(second) == 0 {
		return nil
	}

	if len(first) > 0 && len(second) > 0 && first[len(first)-1].ID == second[0].ID {
		second = second[1:]
	}

	combined := make(core.Path, 0, len(first)+len(second))
	combined = append(combined, first...)
	return append(combined, second...)
}
