package graph

import (
	"strings"
	"wayfinder/internal/core"
	"wayfinder/internal/spatial"
)

// Snapshot is the immutable node set captured by one Refresh. It is safe for
// concurrent use; nothing in it changes after construction.
type Snapshot struct {
	generation uint64
	nodes      []*core.Node
	byID       map[core.NodeID]*core.Node
	byName     map[string]*core.Node
	index      *spatial.Octree
}

func newSnapshot(generation uint64, nodes []*core.Node) *Snapshot {
	s := &Snapshot{
		generation: generation,
		nodes:      make([]*core.Node, 0, len(nodes)),
		byID:       make(map[core.NodeID]*core.Node, len(nodes)),
		byName:     make(map[string]*core.Node, len(nodes)),
	}

	for _, n := range nodes {
		if n == nil || n.ID == core.InvalidNodeID {
			continue
		}
		if _, dup := s.byID[n.ID]; dup {
			continue
		}
		c := n.Clone()
		s.nodes = append(s.nodes, c)
		s.byID[c.ID] = c
		if _, taken := s.byName[c.Name]; !taken {
			s.byName[c.Name] = c
		}
	}

	s.index = spatial.NewOctreeFromNodes(s.nodes)
	return s
}

// Generation identifies the Refresh that produced this snapshot
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Len returns the number of cached nodes
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Nodes returns the cached nodes in source order. The slice must not be modified.
func (s *Snapshot) Nodes() []*core.Node {
	return s.nodes
}

// Node looks up a cached node by ID
func (s *Snapshot) Node(id core.NodeID) (*core.Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// NodeByName looks up a cached node by label
func (s *Snapshot) NodeByName(name string) (*core.Node, bool) {
	n, ok := s.byName[name]
	return n, ok
}

// Neighbors resolves the neighbor list of n in list order. Self references and
// IDs missing from the snapshot are dropped.
func (s *Snapshot) Neighbors(n *core.Node) []*core.Node {
	out := make([]*core.Node, 0, len(n.Neighbors))
	for _, id := range n.Neighbors {
		if id == n.ID {
			continue
		}
		if m, ok := s.byID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ForEachEdge calls fn once per undirected edge, in the order the edges are
// first met while scanning each node's neighbor list.
func (s *Snapshot) ForEachEdge(fn func(a, b *core.Node)) {
	seen := make(map[core.EdgeKey]struct{})

	for _, n := range s.nodes {
		for _, id := range n.Neighbors {
			if id == n.ID {
				continue
			}
			m, ok := s.byID[id]
			if !ok {
				continue
			}

			key := core.MakeEdgeKey(n.ID, m.ID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			fn(n, m)
		}
	}
}

// EdgeCount returns the number of distinct undirected edges
func (s *Snapshot) EdgeCount() int {
	count := 0
	s.ForEachEdge(func(_, _ *core.Node) { count++ })
	return count
}

// Special returns the nodes whose label starts with prefix, in source order
func (s *Snapshot) Special(prefix string) []*core.Node {
	var out []*core.Node
	for _, n := range s.nodes {
		if strings.HasPrefix(n.Name, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// NearestNode returns the node closest to point by straight-line distance
func (s *Snapshot) NearestNode(point core.Vector3D) *core.Node {
	return s.index.GetNearest(point)
}

// NodesWithin returns the nodes within radius of point, ordered by ID
func (s *Snapshot) NodesWithin(point core.Vector3D, radius float64) []*core.Node {
	return s.index.QuerySphere(point, radius)
}
