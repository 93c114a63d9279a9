package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitingResources_OrderedInsertAndRemove(t *testing.T) {
	s := NewWaitingResources()
	s.Insert(&Resource{ID: 5})
	s.Insert(&Resource{ID: 1})
	s.Insert(&Resource{ID: 3})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []ResourceID{1, 3, 5}, []ResourceID{snap[0].ID, snap[1].ID, snap[2].ID})

	// Re-inserting an existing id is a no-op.
	s.Insert(&Resource{ID: 3})
	assert.Equal(t, 3, s.Len())

	s.Remove(3)
	assert.False(t, s.Contains(3))
	assert.Equal(t, 2, s.Len())

	_, ok := s.Get(3)
	assert.False(t, ok)

	r, ok := s.Get(5)
	require.True(t, ok)
	assert.Equal(t, ResourceID(5), r.ID)

	// Removing an absent id is a no-op.
	s.Remove(999)
	assert.Equal(t, 2, s.Len())
}
