package spatial

import (
	"fmt"
	"math"
	"testing"
	"wayfinder/internal/core"

	"gonum.org/v1/gonum/spatial/r3"
)

func testBounds() core.AABB3D {
	return core.AABB3D{
		Min: core.Vector3D{X: -50, Y: -50, Z: -50},
		Max: core.Vector3D{X: 50, Y: 50, Z: 50},
	}
}

func TestOctreeBasicOperations(t *testing.T) {
	octree := NewOctree(testBounds())

	node := &core.Node{ID: 1, Name: "A", Position: core.Vector3D{X: 10, Y: 10, Z: 10}}
	if err := octree.Insert(node); err != nil {
		t.Fatalf("Failed to insert node: %v", err)
	}

	queryBounds := core.AABB3D{
		Min: core.Vector3D{X: 5, Y: 5, Z: 5},
		Max: core.Vector3D{X: 15, Y: 15, Z: 15},
	}

	results := octree.Query(queryBounds)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].ID != node.ID {
		t.Fatalf("Expected node ID %d, got %d", node.ID, results[0].ID)
	}

	if err := octree.Remove(node.ID); err != nil {
		t.Fatalf("Failed to remove node: %v", err)
	}

	results = octree.Query(queryBounds)
	if len(results) != 0 {
		t.Fatalf("Expected 0 results after removal, got %d", len(results))
	}
}

func TestOctreeInsertOutsideBounds(t *testing.T) {
	octree := NewOctree(testBounds())

	err := octree.Insert(&core.Node{ID: 1, Position: core.Vector3D{X: 100}})
	if err == nil {
		t.Fatalf("Expected error for node outside bounds")
	}
}

func TestOctreeSphereQuery(t *testing.T) {
	octree := NewOctree(testBounds())

	nodes := []*core.Node{
		{ID: 1, Position: core.Vector3D{X: 0, Y: 0, Z: 0}},
		{ID: 2, Position: core.Vector3D{X: 5, Y: 0, Z: 0}},
		{ID: 3, Position: core.Vector3D{X: 20, Y: 0, Z: 0}},
	}
	for _, n := range nodes {
		if err := octree.Insert(n); err != nil {
			t.Fatalf("Failed to insert node %d: %v", n.ID, err)
		}
	}

	results := octree.QuerySphere(core.Vector3D{}, 10)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results within sphere, got %d", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 2 {
		t.Fatalf("Expected nodes 1 and 2 in ID order, got %d and %d", results[0].ID, results[1].ID)
	}
}

func TestOctreeNearestAfterSplit(t *testing.T) {
	var nodes []*core.Node
	id := core.NodeID(1)
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			nodes = append(nodes, &core.Node{
				ID:       id,
				Name:     fmt.Sprintf("N%d", id),
				Position: core.Vector3D{X: float64(x) * 3, Y: 0, Z: float64(z) * 3},
			})
			id++
		}
	}
	octree := NewOctreeFromNodes(nodes)

	if octree.Len() != len(nodes) {
		t.Fatalf("Expected %d indexed nodes, got %d", len(nodes), octree.Len())
	}

	queries := []core.Vector3D{
		{X: 0.4, Y: 1, Z: -0.2},
		{X: 11.9, Y: -3, Z: 11.1},
		{X: -7.6, Y: 0, Z: 4.4},
		{X: 40, Y: 40, Z: 40},
	}
	for _, q := range queries {
		got := octree.GetNearest(q)
		want := bruteNearest(nodes, q)
		if got == nil || got.ID != want.ID {
			t.Fatalf("Nearest to %+v: expected node %d, got %+v", q, want.ID, got)
		}
	}
}

func TestOctreeNearestTieBreaksOnID(t *testing.T) {
	octree := NewOctree(testBounds())
	_ = octree.Insert(&core.Node{ID: 7, Position: core.Vector3D{X: 1}})
	_ = octree.Insert(&core.Node{ID: 3, Position: core.Vector3D{X: -1}})

	got := octree.GetNearest(core.Vector3D{})
	if got == nil || got.ID != 3 {
		t.Fatalf("Expected node 3 on equal distance, got %+v", got)
	}
}

func TestOctreeNearestEmpty(t *testing.T) {
	octree := NewOctreeFromNodes(nil)
	if got := octree.GetNearest(core.Vector3D{}); got != nil {
		t.Fatalf("Expected nil from empty octree, got %+v", got)
	}
}

func bruteNearest(nodes []*core.Node, p core.Vector3D) *core.Node {
	var best *core.Node
	bestD2 := math.Inf(1)
	for _, n := range nodes {
		d2 := r3.Norm2(r3.Sub(n.Position, p))
		if d2 < bestD2 {
			best, bestD2 = n, d2
		}
	}
	return best
}

func BenchmarkOctreeNearest(b *testing.B) {
	var nodes []*core.Node
	for i := 0; i < 1000; i++ {
		f := float64(i)
		nodes = append(nodes, &core.Node{
			ID:       core.NodeID(i + 1),
			Position: core.Vector3D{X: math.Mod(f*7.3, 100), Y: math.Mod(f*3.1, 20), Z: math.Mod(f*11.7, 100)},
		})
	}
	octree := NewOctreeFromNodes(nodes)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		octree.GetNearest(core.Vector3D{X: 50, Y: 10, Z: 50})
	}
}
