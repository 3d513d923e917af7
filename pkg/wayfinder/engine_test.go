package wayfinder

import (
	"os"
	"path/filepath"
	"testing"
	"wayfinder/internal/core"
	"wayfinder/internal/navigator"
	"wayfinder/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pondGraph = `nodes:
  - name: A
    position: [0, 0, 0]
    neighbors: [B, D]
  - name: B
    position: [1, 0, 0]
    neighbors: [A, C, W]
  - name: C
    position: [1, 0, 1]
    neighbors: [B, D]
  - name: D
    position: [0, 0, 1]
    neighbors: [C, A]
  - name: W
    position: [2, 0, 0]
    neighbors: [B]
`

func loadPond(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pondGraph), 0o644))

	e := NewEngine(nil)
	require.NoError(t, e.LoadGraph(path))
	return e
}

func TestEngineLoadAndStats(t *testing.T) {
	e := loadPond(t)

	stats := e.GetStats()
	assert.Equal(t, 5, stats.NodeCount)
	assert.Equal(t, 5, stats.EdgeCount)
	assert.Equal(t, 1, stats.WaterCount)
	assert.Equal(t, uint64(1), stats.Generation)
}

func TestEngineQueries(t *testing.T) {
	e := loadPond(t)

	path, err := e.FindPath("A", "C")
	require.NoError(t, err)
	assert.InDelta(t, 2, PathLength(path), 1e-12)

	_, err = e.FindPath("A", "nowhere")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	proj, path, err := e.FindPathFromPoint(NewVector3D(0.5, 3, 0), "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, path.Names())
	assert.InDelta(t, 3, proj.Distance, 1e-12)

	water, err := e.ClosestWaterNode("D")
	require.NoError(t, err)
	assert.Equal(t, "W", water.Name)
	assert.Len(t, e.WaterNodes(), 1)

	assert.Equal(t, "C", e.NearestNode(NewVector3D(0.9, 0, 1.2)).Name)
}

func TestEnginePlanAndFrame(t *testing.T) {
	e := loadPond(t)

	route, err := e.Plan(NewVector3D(0.5, 0, 0), "D")
	require.NoError(t, err)
	assert.False(t, route.ViaWater)

	frame := e.Frame(route)
	assert.Equal(t, "D", frame.Goal)
	assert.Len(t, frame.Polyline, 3)
	require.Len(t, e.Markers(), 1)

	route, err = e.PlanWithOptions(NewVector3D(0.5, 0, 0), "D", navigator.Options{ForceViaWater: true})
	require.NoError(t, err)
	e.Frame(route)

	markers := e.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, render.MarkerWater, markers[1].Kind)
	assert.Equal(t, NewVector3D(2, 1.5, 0), markers[1].Position)
}

func TestEngineWorldEditsNeedRefresh(t *testing.T) {
	e := loadPond(t)

	id, err := e.AddNode("W2", NewVector3D(0, 0, 2))
	require.NoError(t, err)
	d, err := e.Lookup("D")
	require.NoError(t, err)
	require.NoError(t, e.Link(d.ID, id))

	stats := e.GetStats()
	assert.Equal(t, 5, stats.NodeCount)
	assert.Equal(t, 6, stats.WorldNodeCount)

	assert.Equal(t, uint64(2), e.Refresh())
	water, err := e.ClosestWaterNode("D")
	require.NoError(t, err)
	assert.Equal(t, "W2", water.Name)
}

func TestEngineSaveGraph(t *testing.T) {
	e := loadPond(t)
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, e.SaveGraph(path))

	other := NewEngine(DefaultConfig())
	require.NoError(t, other.LoadGraph(path))
	assert.Equal(t, e.GetStats(), other.GetStats())
}

func TestParseVector3D(t *testing.T) {
	v, err := ParseVector3D("1, -2.5,3")
	require.NoError(t, err)
	assert.Equal(t, core.Vector3D{X: 1, Y: -2.5, Z: 3}, v)

	_, err = ParseVector3D("1,2")
	assert.Error(t, err)
	_, err = ParseVector3D("1,b,3")
	assert.Error(t, err)
}

func TestCombinePathsHelpers(t *testing.T) {
	a := &core.Node{ID: 1, Position: NewVector3D(0, 0, 0)}
	b := &core.Node{ID: 2, Position: NewVector3D(3, 4, 0)}

	combined := CombinePaths(core.Path{a, b}, core.Path{b, a})
	assert.Equal(t, []core.NodeID{1, 2, 1}, combined.IDs())
	assert.InDelta(t, 10, PathLength(combined), 1e-12)
	assert.InDelta(t, 5, Distance(a.Position, b.Position), 1e-12)
	assert.InDelta(t, 11, RouteCost(NewVector3D(-1, 0, 0), combined), 1e-12)
}
