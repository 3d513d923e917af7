package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3D represents a 3D coordinate/vector in world space
type Vector3D = r3.Vec

// AABB3D represents an axis-aligned box in 3D space
type AABB3D struct {
	Min, Max Vector3D
}

// NodeID is the stable handle of a waypoint node. Zero is never assigned.
type NodeID uint32

// InvalidNodeID marks an unset node reference
const InvalidNodeID NodeID = 0

// DefaultWaterPrefix is the label prefix that designates water (special) nodes
const DefaultWaterPrefix = "W"

// Node represents a waypoint in the navigation graph
type Node struct {
	ID        NodeID
	Name      string
	Position  Vector3D
	Neighbors []NodeID // Ordered, possibly one-directional
}

// Clone returns a copy that shares no memory with n
func (n *Node) Clone() *Node {
	c := *n
	c.Neighbors = append([]NodeID(nil), n.Neighbors...)
	return &c
}

// EdgeKey identifies an undirected edge, smaller ID in the high word
type EdgeKey uint64

// MakeEdgeKey builds the canonical key for the unordered pair (a, b)
func MakeEdgeKey(a, b NodeID) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey(uint64(a)<<32 | uint64(b))
}

// Nodes returns both IDs of the edge, smaller first
func (k EdgeKey) Nodes() (NodeID, NodeID) {
	return NodeID(k >> 32), NodeID(uint32(k))
}

// Projection is the closest point of some graph edge to a query position
type Projection struct {
	A, B     *Node    // Edge endpoints, nil when no edge exists
	Point    Vector3D // Point on the closed segment AB
	DA, DB   float64  // Distance from Point to A and to B
	Distance float64  // Distance from the query position to Point
}

// NoProjection returns the sentinel used when the graph has no usable edge
func NoProjection() Projection {
	return Projection{Distance: math.Inf(1)}
}

// Valid reports whether both endpoints are set
func (p Projection) Valid() bool {
	return p.A != nil && p.B != nil
}

// Path is an ordered route through the graph; nil means no route
type Path []*Node

// IDs returns the node IDs of the path in order
func (p Path) IDs() []NodeID {
	ids := make([]NodeID, len(p))
	for i, n := range p {
		ids[i] = n.ID
	}
	return ids
}

// Names returns the node labels of the path in order
func (p Path) Names() []string {
	names := make([]string, len(p))
	for i, n := range p {
		names[i] = n.Name
	}
	return names
}

// Contains reports whether the node with the given ID is on the path
func (p Path) Contains(id NodeID) bool {
	for _, n := range p {
		if n.ID == id {
			return true
		}
	}
	return false
}

// HeuristicFunc3D estimates the remaining cost between two positions
type HeuristicFunc3D func(a, b Vector3D) float64
