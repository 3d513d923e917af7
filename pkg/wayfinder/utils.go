package wayfinder

import (
	"fmt"
	"strconv"
	"strings"
	"wayfinder/internal/core"
	"wayfinder/internal/pathfinding"
)

// NewVector3D creates a new 3D vector
func NewVector3D(x, y, z float64) core.Vector3D {
	return core.Vector3D{X: x, Y: y, Z: z}
}

// ParseVector3D parses "x,y,z"
func ParseVector3D(s string) (core.Vector3D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vector3D{}, fmt.Errorf("invalid position %q: want x,y,z", s)
	}

	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vector3D{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		xyz[i] = v
	}
	return core.Vector3D{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b core.Vector3D) float64 {
	return pathfinding.EuclideanDistance3D(a, b)
}

// PathLength sums the segment lengths of a node path, +Inf below two nodes
func PathLength(path core.Path) float64 {
	return pathfinding.PathLength(path)
}

// RouteCost is the length of a route that starts at from and follows path
func RouteCost(from core.Vector3D, path core.Path) float64 {
	return pathfinding.RouteCost(from, path)
}

// CombinePaths concatenates two paths, eliding a shared junction node
func CombinePaths(first, second core.Path) core.Path {
	return pathfinding.CombinePaths(first, second)
}
