package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBatcher_AddAndInWindow(t *testing.T) {
	p := NewPoolBatcher(30, 0)
	assert.True(t, p.InWindow(0))
	assert.True(t, p.InWindow(29))
	assert.False(t, p.InWindow(30))
	assert.True(t, p.IsEmpty())

	p.Add(&Resource{ID: 1})
	p.Add(&Resource{ID: 2})
	assert.False(t, p.IsEmpty())
}

// TestPoolBatcher_CloseSlidesByFlatWindow implements spec.md §9 open
// question 1: pool_end always advances by a flat window width from the
// previous pool_end, regardless of when Close is actually called.
func TestPoolBatcher_CloseSlidesByFlatWindow(t *testing.T) {
	p := NewPoolBatcher(30, 0)
	p.Add(&Resource{ID: 1})

	drained := p.Close()
	require.Len(t, drained, 1)
	assert.Equal(t, int64(30), p.poolStart)
	assert.Equal(t, int64(60), p.poolEnd)
	assert.True(t, p.IsEmpty())

	// A second Close with an empty buffer still advances by one window.
	empty := p.Close()
	assert.Empty(t, empty)
	assert.Equal(t, int64(60), p.poolStart)
	assert.Equal(t, int64(90), p.poolEnd)
}

func TestPoolBatcher_CloseReturnsArrivalOrder(t *testing.T) {
	p := NewPoolBatcher(30, 0)
	p.Add(&Resource{ID: 5})
	p.Add(&Resource{ID: 2})
	p.Add(&Resource{ID: 9})

	drained := p.Close()
	require.Len(t, drained, 3)
	assert.Equal(t, ResourceID(5), drained[0].ID)
	assert.Equal(t, ResourceID(2), drained[1].ID)
	assert.Equal(t, ResourceID(9), drained[2].ID)
}
