package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridesim/dispatch-sim/citymap"
)

func TestComputeMatching_EmptySidesReturnNil(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	resource := &Resource{ID: 1, Pickup: citymap.LocationOnRoad{Road: r1}, Dropoff: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}}
	agent := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1}}

	assert.Nil(t, computeMatching(nil, []*Agent{agent}, m))
	assert.Nil(t, computeMatching([]*Resource{resource}, nil, m))
}

// TestComputeMatching_MoreResourcesThanAgents implements spec §4.6's
// "|result| == min(len(resources), len(agents))" invariant for the
// agents-propose branch (agents are the shorter side).
func TestComputeMatching_MoreResourcesThanAgents(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	agent := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}}

	resources := []*Resource{
		{ID: 1, Pickup: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}, Dropoff: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}},
		{ID: 2, Pickup: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 500}, Dropoff: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}},
	}

	matches := computeMatching(resources, []*Agent{agent}, m)
	require.Len(t, matches, 1)
	assert.Equal(t, AgentID(1), matches[0].Agent.ID)
}

// TestComputeMatching_MoreAgentsThanResources implements the symmetric
// resources-propose branch.
func TestComputeMatching_MoreAgentsThanResources(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	resource := &Resource{ID: 1, Pickup: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}, Dropoff: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}}
	agents := []*Agent{
		{ID: 1, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}},
		{ID: 2, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 500}},
	}

	matches := computeMatching([]*Resource{resource}, agents, m)
	require.Len(t, matches, 1)
	assert.Equal(t, ResourceID(1), matches[0].Resource.ID)
}

// TestComputeMatching_BenefitWithinBounds implements spec §8 property 6:
// benefit always lies in (0, 1].
func TestComputeMatching_BenefitWithinBounds(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	resource := &Resource{ID: 1, Pickup: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}, Dropoff: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime}}
	agent := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 500}}

	matches := computeMatching([]*Resource{resource}, []*Agent{agent}, m)
	require.Len(t, matches, 1)
	assert.Greater(t, matches[0].Benefit, 0.0)
	assert.LessOrEqual(t, matches[0].Benefit, 1.0)
}
