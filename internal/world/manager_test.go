package world

import (
	"testing"
	"wayfinder/internal/core"
)

func TestAddNodeAssignsSequentialIDs(t *testing.T) {
	m := NewManager()

	a, err := m.AddNode("A", core.Vector3D{})
	if err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}
	b, err := m.AddNode("B", core.Vector3D{X: 1})
	if err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}

	if a != 1 || b != 2 {
		t.Fatalf("Expected IDs 1 and 2, got %d and %d", a, b)
	}

	if _, err := m.AddNode("A", core.Vector3D{}); err == nil {
		t.Fatal("Expected duplicate name to be rejected")
	}
	if _, err := m.AddNode("", core.Vector3D{}); err == nil {
		t.Fatal("Expected empty name to be rejected")
	}
	if m.GetNodeCount() != 2 {
		t.Fatalf("Expected 2 nodes, got %d", m.GetNodeCount())
	}
}

func TestLinkAndUnlink(t *testing.T) {
	m := NewManager()
	a, _ := m.AddNode("A", core.Vector3D{})
	b, _ := m.AddNode("B", core.Vector3D{X: 1})

	if err := m.Link(a, b); err != nil {
		t.Fatalf("Failed to link: %v", err)
	}
	// Linking again is a no-op
	if err := m.Link(a, b); err != nil {
		t.Fatalf("Failed to relink: %v", err)
	}

	na, _ := m.GetNode(a)
	nb, _ := m.GetNode(b)
	if len(na.Neighbors) != 1 || na.Neighbors[0] != b {
		t.Fatalf("Unexpected neighbors of A: %v", na.Neighbors)
	}
	if len(nb.Neighbors) != 1 || nb.Neighbors[0] != a {
		t.Fatalf("Unexpected neighbors of B: %v", nb.Neighbors)
	}

	if err := m.LinkOneWay(a, a); err == nil {
		t.Fatal("Expected self link to be rejected")
	}
	if err := m.Link(a, 99); err == nil {
		t.Fatal("Expected link to unknown node to fail")
	}

	if err := m.Unlink(a, b); err != nil {
		t.Fatalf("Failed to unlink: %v", err)
	}
	na, _ = m.GetNode(a)
	if len(na.Neighbors) != 0 {
		t.Fatalf("Expected no neighbors after unlink, got %v", na.Neighbors)
	}
}

func TestRemoveNodeDropsReferences(t *testing.T) {
	m := NewManager()
	a, _ := m.AddNode("A", core.Vector3D{})
	b, _ := m.AddNode("B", core.Vector3D{X: 1})
	c, _ := m.AddNode("C", core.Vector3D{X: 2})
	_ = m.Link(a, b)
	_ = m.Link(c, b)
	_ = m.Link(a, c)

	if err := m.RemoveNode(b); err != nil {
		t.Fatalf("Failed to remove node: %v", err)
	}

	na, _ := m.GetNode(a)
	if len(na.Neighbors) != 1 || na.Neighbors[0] != c {
		t.Fatalf("Unexpected neighbors of A: %v", na.Neighbors)
	}
	if _, err := m.GetNodeByName("B"); err == nil {
		t.Fatal("Expected B to be gone")
	}
	if err := m.RemoveNode(b); err == nil {
		t.Fatal("Expected second removal to fail")
	}
}

func TestNodesAreCopies(t *testing.T) {
	m := NewManager()
	a, _ := m.AddNode("A", core.Vector3D{})
	b, _ := m.AddNode("B", core.Vector3D{X: 1})
	_ = m.Link(a, b)

	nodes := m.Nodes()
	nodes[0].Position.X = 42
	nodes[0].Neighbors[0] = 77

	n, _ := m.GetNode(a)
	if n.Position.X != 0 || n.Neighbors[0] != b {
		t.Fatalf("World changed through a returned copy: %+v", n)
	}

	if err := m.MoveNode(a, core.Vector3D{Y: 3}); err != nil {
		t.Fatalf("Failed to move node: %v", err)
	}
	n, _ = m.GetNodeByName("A")
	if n.Position.Y != 3 {
		t.Fatalf("Expected moved position, got %v", n.Position)
	}
}

func TestReplace(t *testing.T) {
	m := NewManager()
	_, _ = m.AddNode("old", core.Vector3D{})

	err := m.Replace([]*core.Node{
		{ID: 5, Name: "A", Neighbors: []core.NodeID{9}},
		{ID: 9, Name: "B"},
	})
	if err != nil {
		t.Fatalf("Failed to replace: %v", err)
	}

	if m.GetNodeCount() != 2 {
		t.Fatalf("Expected 2 nodes, got %d", m.GetNodeCount())
	}
	id, err := m.AddNode("C", core.Vector3D{})
	if err != nil || id != 10 {
		t.Fatalf("Expected next ID 10, got %d (%v)", id, err)
	}

	bad := [][]*core.Node{
		{{ID: 0, Name: "A"}},
		{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
		{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}},
		{nil},
	}
	for i, nodes := range bad {
		if err := m.Replace(nodes); err == nil {
			t.Fatalf("Case %d: expected error", i)
		}
	}
	if m.GetNodeCount() != 3 {
		t.Fatalf("Failed replace must leave the world intact, got %d nodes", m.GetNodeCount())
	}

	m.Clear()
	if m.GetNodeCount() != 0 {
		t.Fatalf("Expected empty world after Clear")
	}
}
