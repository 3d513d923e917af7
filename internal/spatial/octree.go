package spatial

import (
	"fmt"
	"math"
	"sort"
	"wayfinder/internal/core"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxNodesPerOctNode defines when to split an octree node
	MaxNodesPerOctNode = 8
	// MaxOctreeDepth defines maximum depth of the octree
	MaxOctreeDepth = 10
	// BoundsPadding is added around the tight bounds of a node set
	BoundsPadding = 1.0
)

// Octree indexes waypoint positions for proximity queries.
// Waypoints are points, so every waypoint lives in exactly one leaf or in the
// deepest node whose box contains it.
type Octree struct {
	bounds core.AABB3D
	nodes  map[core.NodeID]*core.Node
	root   *octNode
}

// octNode represents a node in the octree
type octNode struct {
	bounds   core.AABB3D
	items    map[core.NodeID]*core.Node
	children [8]*octNode
	depth    int
}

// NewOctree creates a new octree with the given bounds
func NewOctree(bounds core.AABB3D) *Octree {
	return &Octree{
		bounds: bounds,
		nodes:  make(map[core.NodeID]*core.Node),
		root:   newOctNode(bounds, 0),
	}
}

// NewOctreeFromNodes sizes an octree around the given waypoints and inserts them
func NewOctreeFromNodes(nodes []*core.Node) *Octree {
	ot := NewOctree(BoundsOf(nodes, BoundsPadding))
	for _, n := range nodes {
		// Bounds were computed from these nodes, Insert cannot fail
		_ = ot.Insert(n)
	}
	return ot
}

// BoundsOf returns the box enclosing all node positions, grown by padding
func BoundsOf(nodes []*core.Node, padding float64) core.AABB3D {
	if len(nodes) == 0 {
		return core.AABB3D{
			Min: core.Vector3D{X: -padding, Y: -padding, Z: -padding},
			Max: core.Vector3D{X: padding, Y: padding, Z: padding},
		}
	}

	lo := nodes[0].Position
	hi := nodes[0].Position
	for _, n := range nodes[1:] {
		p := n.Position
		lo = core.Vector3D{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = core.Vector3D{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}

	pad := core.Vector3D{X: padding, Y: padding, Z: padding}
	return core.AABB3D{Min: r3.Sub(lo, pad), Max: r3.Add(hi, pad)}
}

// Insert adds a waypoint to the octree
func (ot *Octree) Insert(node *core.Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	if !containsPoint(ot.bounds, node.Position) {
		return fmt.Errorf("node %d at %+v outside octree bounds %+v", node.ID, node.Position, ot.bounds)
	}

	if _, exists := ot.nodes[node.ID]; exists {
		ot.root.remove(node.ID)
	}

	ot.nodes[node.ID] = node
	ot.root.insert(node)
	return nil
}

// Remove removes a waypoint from the octree
func (ot *Octree) Remove(id core.NodeID) error {
	if _, exists := ot.nodes[id]; !exists {
		return fmt.Errorf("node with id %d not found", id)
	}

	delete(ot.nodes, id)
	ot.root.remove(id)
	return nil
}

// Len returns the number of indexed waypoints
func (ot *Octree) Len() int {
	return len(ot.nodes)
}

// Query returns all waypoints inside the given box, ordered by ID
func (ot *Octree) Query(bounds core.AABB3D) []*core.Node {
	var results []*core.Node
	ot.root.query(bounds, &results)
	sortByID(results)
	return results
}

// QuerySphere returns all waypoints within radius of center, ordered by ID
func (ot *Octree) QuerySphere(center core.Vector3D, radius float64) []*core.Node {
	r := core.Vector3D{X: radius, Y: radius, Z: radius}
	candidates := ot.Query(core.AABB3D{Min: r3.Sub(center, r), Max: r3.Add(center, r)})

	results := candidates[:0]
	for _, n := range candidates {
		if r3.Norm2(r3.Sub(n.Position, center)) <= radius*radius {
			results = append(results, n)
		}
	}
	return results
}

// GetNearest returns the waypoint closest to point, or nil if the octree is
// empty. Equal distances resolve to the smaller ID.
func (ot *Octree) GetNearest(point core.Vector3D) *core.Node {
	var best *core.Node
	bestD2 := math.Inf(1)
	ot.root.nearest(point, &best, &bestD2)
	return best
}

// Clear removes all waypoints from the octree
func (ot *Octree) Clear() {
	ot.nodes = make(map[core.NodeID]*core.Node)
	ot.root = newOctNode(ot.bounds, 0)
}

func newOctNode(bounds core.AABB3D, depth int) *octNode {
	return &octNode{
		bounds: bounds,
		items:  make(map[core.NodeID]*core.Node),
		depth:  depth,
	}
}

// insert adds a waypoint to this node or its children
func (on *octNode) insert(node *core.Node) {
	if on.children[0] != nil {
		if child := on.childFor(node.Position); child != nil {
			child.insert(node)
			return
		}
	}

	on.items[node.ID] = node

	if len(on.items) > MaxNodesPerOctNode && on.depth < MaxOctreeDepth {
		on.split()
	}
}

// remove deletes a waypoint from this node or its children
func (on *octNode) remove(id core.NodeID) {
	delete(on.items, id)

	if on.children[0] != nil {
		for _, child := range on.children {
			child.remove(id)
		}
	}
}

// query collects all waypoints within the given bounds
func (on *octNode) query(bounds core.AABB3D, results *[]*core.Node) {
	for _, n := range on.items {
		if containsPoint(bounds, n.Position) {
			*results = append(*results, n)
		}
	}

	if on.children[0] != nil {
		for _, child := range on.children {
			if intersects3D(bounds, child.bounds) {
				child.query(bounds, results)
			}
		}
	}
}

// nearest performs a branch-and-bound descent, closest octants first
func (on *octNode) nearest(point core.Vector3D, best **core.Node, bestD2 *float64) {
	if boxDistance2(on.bounds, point) > *bestD2 {
		return
	}

	for _, n := range on.items {
		d2 := r3.Norm2(r3.Sub(n.Position, point))
		if d2 < *bestD2 || (d2 == *bestD2 && *best != nil && n.ID < (*best).ID) {
			*best = n
			*bestD2 = d2
		}
	}

	if on.children[0] == nil {
		return
	}

	order := [8]int{0, 1, 2, 3, 4, 5, 6, 7}
	var dist [8]float64
	for i, child := range on.children {
		dist[i] = boxDistance2(child.bounds, point)
	}
	sort.SliceStable(order[:], func(i, j int) bool { return dist[order[i]] < dist[order[j]] })

	for _, i := range order {
		on.children[i].nearest(point, best, bestD2)
	}
}

// split divides this node into eight children
func (on *octNode) split() {
	mid := r3.Scale(0.5, r3.Add(on.bounds.Min, on.bounds.Max))
	lo, hi := on.bounds.Min, on.bounds.Max

	for i := 0; i < 8; i++ {
		b := core.AABB3D{Min: lo, Max: mid}
		if i&1 != 0 {
			b.Min.X, b.Max.X = mid.X, hi.X
		}
		if i&2 != 0 {
			b.Min.Y, b.Max.Y = mid.Y, hi.Y
		}
		if i&4 != 0 {
			b.Min.Z, b.Max.Z = mid.Z, hi.Z
		}
		on.children[i] = newOctNode(b, on.depth+1)
	}

	// Redistribute waypoints
	for id, n := range on.items {
		if child := on.childFor(n.Position); child != nil {
			child.insert(n)
			delete(on.items, id)
		}
	}
}

// childFor returns the first child octant containing p
func (on *octNode) childFor(p core.Vector3D) *octNode {
	for _, child := range on.children {
		if child != nil && containsPoint(child.bounds, p) {
			return child
		}
	}
	return nil
}

// Helper functions

func containsPoint(box core.AABB3D, p core.Vector3D) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}

func intersects3D(a, b core.AABB3D) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// boxDistance2 is the squared distance from p to the closest point of box
func boxDistance2(box core.AABB3D, p core.Vector3D) float64 {
	dx := math.Max(0, math.Max(box.Min.X-p.X, p.X-box.Max.X))
	dy := math.Max(0, math.Max(box.Min.Y-p.Y, p.Y-box.Max.Y))
	dz := math.Max(0, math.Max(box.Min.Z-p.Z, p.Z-box.Max.Z))
	return dx*dx + dy*dy + dz*dz
}

func sortByID(nodes []*core.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}
