package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "routes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	first, err := j.Record(ctx, Entry{RecordedAt: base, Goal: "D", Cost: 1.5, Nodes: []string{"A", "D"}})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)

	_, err = j.Record(ctx, Entry{
		RecordedAt: base.Add(time.Second),
		Goal:       "D",
		Water:      "W",
		ViaWater:   true,
		Cost:       4.5,
		Nodes:      []string{"B", "W", "B", "A", "D"},
	})
	require.NoError(t, err)

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "W", entries[0].Water)
	assert.True(t, entries[0].ViaWater)
	assert.Equal(t, []string{"B", "W", "B", "A", "D"}, entries[0].Nodes)
	assert.True(t, entries[0].RecordedAt.Equal(base.Add(time.Second)))

	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "", entries[1].Water)
	assert.False(t, entries[1].ViaWater)
	assert.InDelta(t, 1.5, entries[1].Cost, 1e-12)
}

func TestRecentLimit(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := j.Record(ctx, Entry{Goal: "G", Nodes: []string{"G"}})
		require.NoError(t, err)
	}

	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDuplicateIDRejected(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	e := Entry{ID: uuid.NewString(), Goal: "G"}
	_, err := j.Record(ctx, e)
	require.NoError(t, err)
	_, err = j.Record(ctx, e)
	assert.Error(t, err)
}
