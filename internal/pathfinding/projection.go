package pathfinding

import (
	"math"
	"wayfinder/internal/core"
	"wayfinder/internal/graph"
)

// FindClosestProjection returns the closest point of any graph edge to point.
// Edges are scanned once each in cache order; a later edge must be strictly
// closer to replace the current best. Without a usable edge the result has
// nil endpoints and infinite distance.
func (p *GraphPathfinder) FindClosestProjection(point core.Vector3D) core.Projection {
	return projectOnto(p.store.EnsureCache(), point)
}

func projectOnto(snap *graph.Snapshot, point core.Vector3D) core.Projection {
	best := core.NoProjection()
	bestDist2 := math.Inf(1)

	snap.ForEachEdge(func(a, b *core.Node) {
		proj, _, ok := ClosestPointOnSegment(point, a.Position, b.Position)
		if !ok {
			return
		}

		d2 := SquaredDistance3D(point, proj)
		if d2 >= bestDist2 {
			return
		}

		bestDist2 = d2
		best = core.Projection{
			A:        a,
			B:        b,
			Point:    proj,
			DA:       EuclideanDistance3D(proj, a.Position),
			DB:       EuclideanDistance3D(proj, b.Position),
			Distance: math.Sqrt(d2),
		}
	})

	return best
}
