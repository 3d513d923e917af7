package world

import (
	"fmt"
	"sort"
	"sync"
	"wayfinder/internal/core"
)

// Manager owns the waypoint population of a scene. It is the authoring side of
// the graph; the graph store only ever reads snapshots of it.
type Manager struct {
	mu         sync.RWMutex
	nodes      map[core.NodeID]*core.Node
	nameIndex  map[string]core.NodeID
	nextNodeID core.NodeID
}

// NewManager creates an empty world
func NewManager() *Manager {
	return &Manager{
		nodes:      make(map[core.NodeID]*core.Node),
		nameIndex:  make(map[string]core.NodeID),
		nextNodeID: 1,
	}
}

// AddNode adds a new waypoint and returns its assigned ID
func (m *Manager) AddNode(name string, position core.Vector3D) (core.NodeID, error) {
	if name == "" {
		return core.InvalidNodeID, fmt.Errorf("node name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.nameIndex[name]; exists {
		return core.InvalidNodeID, fmt.Errorf("node named %q already exists", name)
	}

	id := m.nextNodeID
	m.nextNodeID++

	m.nodes[id] = &core.Node{ID: id, Name: name, Position: position}
	m.nameIndex[name] = id

	return id, nil
}

// RemoveNode deletes a waypoint and every neighbor reference to it
func (m *Manager) RemoveNode(id core.NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, exists := m.nodes[id]
	if !exists {
		return fmt.Errorf("node with ID %d not found", id)
	}

	delete(m.nodes, id)
	delete(m.nameIndex, node.Name)

	for _, other := range m.nodes {
		other.Neighbors = removeID(other.Neighbors, id)
	}

	return nil
}

// MoveNode changes the position of a waypoint
func (m *Manager) MoveNode(id core.NodeID, position core.Vector3D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, exists := m.nodes[id]
	if !exists {
		return fmt.Errorf("node with ID %d not found", id)
	}

	node.Position = position
	return nil
}

// Link connects two waypoints in both directions
func (m *Manager) Link(a, b core.NodeID) error {
	if err := m.LinkOneWay(a, b); err != nil {
		return err
	}
	return m.LinkOneWay(b, a)
}

// LinkOneWay appends to as a neighbor of from. Duplicate links are ignored.
func (m *Manager) LinkOneWay(from, to core.NodeID) error {
	if from == to {
		return fmt.Errorf("node %d cannot neighbor itself", from)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src, exists := m.nodes[from]
	if !exists {
		return fmt.Errorf("node with ID %d not found", from)
	}
	if _, exists := m.nodes[to]; !exists {
		return fmt.Errorf("node with ID %d not found", to)
	}

	for _, id := range src.Neighbors {
		if id == to {
			return nil
		}
	}
	src.Neighbors = append(src.Neighbors, to)

	return nil
}

// Unlink removes the connection between two waypoints in both directions
func (m *Manager) Unlink(a, b core.NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	na, okA := m.nodes[a]
	nb, okB := m.nodes[b]
	if !okA || !okB {
		return fmt.Errorf("cannot unlink %d and %d: node not found", a, b)
	}

	na.Neighbors = removeID(na.Neighbors, b)
	nb.Neighbors = removeID(nb.Neighbors, a)
	return nil
}

// GetNode retrieves a copy of a waypoint by ID
func (m *Manager) GetNode(id core.NodeID) (*core.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, exists := m.nodes[id]
	if !exists {
		return nil, fmt.Errorf("node with ID %d not found", id)
	}

	// Return a copy to prevent external modifications
	return node.Clone(), nil
}

// GetNodeByName retrieves a copy of a waypoint by label
func (m *Manager) GetNodeByName(name string) (*core.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.nameIndex[name]
	if !exists {
		return nil, fmt.Errorf("node named %q not found", name)
	}

	return m.nodes[id].Clone(), nil
}

// Nodes returns copies of all waypoints ordered by ID
func (m *Manager) Nodes() []*core.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]*core.Node, 0, len(m.nodes))
	for _, node := range m.nodes {
		nodes = append(nodes, node.Clone())
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return nodes
}

// GetNodeCount returns the number of waypoints
func (m *Manager) GetNodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.nodes)
}

// Clear removes all waypoints. IDs keep increasing across clears.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = make(map[core.NodeID]*core.Node)
	m.nameIndex = make(map[string]core.NodeID)
}

// Replace swaps the whole population in one step. Nodes must carry unique,
// non-zero IDs and unique names; neighbor lists are taken as given.
func (m *Manager) Replace(nodes []*core.Node) error {
	byID := make(map[core.NodeID]*core.Node, len(nodes))
	byName := make(map[string]core.NodeID, len(nodes))
	maxID := core.InvalidNodeID

	for _, node := range nodes {
		if node == nil {
			return fmt.Errorf("node cannot be nil")
		}
		if node.ID == core.InvalidNodeID {
			return fmt.Errorf("node %q has no ID", node.Name)
		}
		if _, exists := byID[node.ID]; exists {
			return fmt.Errorf("node with ID %d already exists", node.ID)
		}
		if _, exists := byName[node.Name]; exists {
			return fmt.Errorf("node named %q already exists", node.Name)
		}
		byID[node.ID] = node.Clone()
		byName[node.Name] = node.ID
		if node.ID > maxID {
			maxID = node.ID
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = byID
	m.nameIndex = byName
	if maxID >= m.nextNodeID {
		m.nextNodeID = maxID + 1
	}

	return nil
}

func removeID(ids []core.NodeID, id core.NodeID) []core.NodeID {
	out := ids[:0]
	for _, n := range ids {
		if n != id {
			out = append(out, n)
		}
	}
	return out
}
