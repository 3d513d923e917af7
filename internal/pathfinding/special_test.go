package pathfinding

import (
	"testing"
	"wayfinder/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waterLine lays G - n1 - W1 - n2 - W2 along X with W1 nearer by path
func waterLine(t *testing.T) *fixture {
	f := newFixture(t)
	f.add("G", 0, 0, 0)
	f.add("n1", 1, 0, 0)
	f.add("W1", 2, 0, 0)
	f.add("n2", 3, 0, 0)
	f.add("W2", 4, 0, 0)
	f.link([2]string{"G", "n1"}, [2]string{"n1", "W1"}, [2]string{"W1", "n2"}, [2]string{"n2", "W2"})
	return f
}

func TestSpecialNodes(t *testing.T) {
	f := waterLine(t)

	got := f.pf.SpecialNodes(core.DefaultWaterPrefix)
	require.Len(t, got, 2)
	assert.Equal(t, "W1", got[0].Name)
	assert.Equal(t, "W2", got[1].Name)

	assert.Empty(t, f.pf.SpecialNodes("X"))
}

func TestClosestSpecialNodeByPath(t *testing.T) {
	f := waterLine(t)

	water, err := f.pf.ClosestSpecialNodeByPath(f.node("G"), core.DefaultWaterPrefix)
	require.NoError(t, err)
	assert.Equal(t, "W1", water.Name)
}

func TestClosestSpecialNodeUsesPathNotStraightLine(t *testing.T) {
	f := newFixture(t)
	f.add("G", 0, 0, 0)
	f.add("Wnear", 1, 0, 0) // close in space, long way round
	f.add("Wfar", 0, 0, 3)
	f.add("detour", 0, 0, 10)
	f.link([2]string{"G", "Wfar"}, [2]string{"Wfar", "detour"}, [2]string{"detour", "Wnear"})

	water, err := f.pf.ClosestSpecialNodeByPath(f.node("G"), "W")
	require.NoError(t, err)
	assert.Equal(t, "Wfar", water.Name)
}

func TestClosestSpecialNodeSkipsGoalItself(t *testing.T) {
	f := waterLine(t)

	water, err := f.pf.ClosestSpecialNodeByPath(f.node("W1"), core.DefaultWaterPrefix)
	require.NoError(t, err)
	assert.Equal(t, "W2", water.Name)
}

func TestClosestSpecialNodeTieKeepsFirst(t *testing.T) {
	f := newFixture(t)
	f.add("Wa", -1, 0, 0)
	f.add("G", 0, 0, 0)
	f.add("Wb", 1, 0, 0)
	f.link([2]string{"G", "Wb"}, [2]string{"G", "Wa"})

	water, err := f.pf.ClosestSpecialNodeByPath(f.node("G"), "W")
	require.NoError(t, err)
	assert.Equal(t, "Wa", water.Name)
}

func TestClosestSpecialNodeNoneAvailable(t *testing.T) {
	f := square(t)

	_, err := f.pf.ClosestSpecialNodeByPath(f.node("A"), core.DefaultWaterPrefix)
	assert.ErrorIs(t, err, ErrNoSpecialNode)

	// Only the goal itself carries the prefix
	_, err = f.pf.ClosestSpecialNodeByPath(f.node("A"), "A")
	assert.ErrorIs(t, err, ErrNoSpecialNode)

	// Present but unreachable
	f.add("W9", 20, 0, 0)
	f.store.Refresh()
	_, err = f.pf.ClosestSpecialNodeByPath(f.node("A"), core.DefaultWaterPrefix)
	assert.ErrorIs(t, err, ErrNoSpecialNode)

	// The memoized miss answers the same way
	_, err = f.pf.ClosestSpecialNodeByPath(f.node("A"), core.DefaultWaterPrefix)
	assert.ErrorIs(t, err, ErrNoSpecialNode)

	_, err = f.pf.ClosestSpecialNodeByPath(nil, core.DefaultWaterPrefix)
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestClosestSpecialNodeMemoInvalidatedByRefresh(t *testing.T) {
	f := waterLine(t)

	water, err := f.pf.ClosestSpecialNodeByPath(f.node("G"), core.DefaultWaterPrefix)
	require.NoError(t, err)
	assert.Equal(t, "W1", water.Name)

	// A shortcut to W2 is invisible until the cache is refreshed
	f.link([2]string{"G", "W2"})
	require.NoError(t, f.world.MoveNode(f.ids["W2"], core.Vector3D{Y: 0.5}))

	water, err = f.pf.ClosestSpecialNodeByPath(f.node("G"), core.DefaultWaterPrefix)
	require.NoError(t, err)
	assert.Equal(t, "W1", water.Name)

	f.store.Refresh()
	water, err = f.pf.ClosestSpecialNodeByPath(f.node("G"), core.DefaultWaterPrefix)
	require.NoError(t, err)
	assert.Equal(t, "W2", water.Name)
	assert.Equal(t, f.store.Generation(), uint64(2))
}
