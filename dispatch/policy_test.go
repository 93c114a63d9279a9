package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridesim/dispatch-sim/citymap"
)

func TestRandomSearchPolicy_PicksAmongOutgoingRoads(t *testing.T) {
	m, r1, r2 := threeRoadMap(t)
	rng := NewPartitionedRNG(7)
	policy := NewRandomSearchPolicy(rng)

	agent := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}}
	next := policy.NextRoad(agent, m)
	require.NotNil(t, next)
	assert.Equal(t, r2.ID, next.ID)
}

func TestRandomSearchPolicy_DeadEndReturnsNil(t *testing.T) {
	m, _, r2 := threeRoadMap(t)
	rng := NewPartitionedRNG(7)
	policy := NewRandomSearchPolicy(rng)

	agent := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r2, TravelTimeFromStart: r2.TravelTime}}
	next := policy.NextRoad(agent, m)
	assert.Nil(t, next)
}
