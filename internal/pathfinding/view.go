package pathfinding

import (
	"wayfinder/internal/core"
	"wayfinder/internal/graph"
)

// View runs every query against the one snapshot it was taken from, so a
// Refresh between calls cannot mix two graphs into one answer.
type View struct {
	pf   *GraphPathfinder
	snap *graph.Snapshot
}

// View pins the current snapshot, building it first if needed
func (p *GraphPathfinder) View() *View {
	return &View{pf: p, snap: p.store.EnsureCache()}
}

// Snapshot returns the pinned snapshot
func (v *View) Snapshot() *graph.Snapshot {
	return v.snap
}

// FindClosestProjection is GraphPathfinder.FindClosestProjection on the pinned snapshot
func (v *View) FindClosestProjection(point core.Vector3D) core.Projection {
	return projectOnto(v.snap, point)
}

// FindPath is GraphPathfinder.FindPath on the pinned snapshot
func (v *View) FindPath(start, goal *core.Node) (core.Path, error) {
	return v.pf.findPath(v.snap, start, goal)
}

// FindPathFromProjection is GraphPathfinder.FindPathFromProjection on the pinned snapshot
func (v *View) FindPathFromProjection(proj core.Projection, goal *core.Node) (core.Path, error) {
	return v.pf.findPathFromProjection(v.snap, proj, goal)
}

// ClosestSpecialNodeByPath is GraphPathfinder.ClosestSpecialNodeByPath on the pinned snapshot
func (v *View) ClosestSpecialNodeByPath(goal *core.Node, prefix string) (*core.Node, error) {
	return v.pf.closestSpecialByPath(v.snap, goal, prefix)
}
