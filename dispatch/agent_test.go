package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgent_IsEmpty(t *testing.T) {
	a := &Agent{Phase: IntersectionReached}
	assert.True(t, a.IsEmpty())

	a.Assignment = &Assignment{ResourceID: 1}
	assert.False(t, a.IsEmpty())

	a.Assignment = nil
	a.Phase = PickingUp
	assert.False(t, a.IsEmpty())
}

func TestEmptyAgents_OrderedInsertAndRemove(t *testing.T) {
	s := NewEmptyAgents()
	s.Insert(&Agent{ID: 7})
	s.Insert(&Agent{ID: 2})
	s.Insert(&Agent{ID: 4})

	snap := s.Snapshot()
	assert.Equal(t, []AgentID{2, 4, 7}, []AgentID{snap[0].ID, snap[1].ID, snap[2].ID})

	s.Insert(&Agent{ID: 2}) // no-op, already present
	assert.Equal(t, 3, s.Len())

	s.Remove(4)
	assert.False(t, s.Contains(4))
	assert.Equal(t, 2, s.Len())

	s.Remove(999) // no-op, absent
	assert.Equal(t, 2, s.Len())
}
