package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridesim/dispatch-sim/citymap"
)

// TestSimulator_ResourceAccountingInvariant implements spec §8 property 4:
// every resource that becomes available is eventually either assigned,
// expired, or still waiting at simulation end — never more than one, and
// never none.
func TestSimulator_ResourceAccountingInvariant(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	sim := NewSimulator(m, nil, 2000, 50, 1)

	for i := 1; i <= 3; i++ {
		sim.AddAgent(&Agent{ID: AgentID(i), Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}, NextEventTime: int64(i) * 5})
	}
	for i := 1; i <= 8; i++ {
		sim.AddResource(&Resource{
			ID:            ResourceID(i),
			Pickup:        citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0},
			Dropoff:       citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime},
			AvailableTime: int64(i) * 20,
			TripTime:      50,
		})
	}

	report := sim.Run()
	assert.Equal(t, 8, report.TotalResourcesSeen)
	assert.Equal(t, report.TotalResourcesSeen, report.TotalAssignments+report.ExpiredResources+report.StillWaitingAtEnd)
}

func TestSimulator_RunStopsAtSimulationEnd(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	sim := NewSimulator(m, nil, 10, 600, 1)

	sim.AddAgent(&Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0}, NextEventTime: 5})
	sim.AddResource(&Resource{
		ID:            1,
		Pickup:        citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: 0},
		Dropoff:       citymap.LocationOnRoad{Road: r1, TravelTimeFromStart: r1.TravelTime},
		AvailableTime: 1000, // past SimulationEnd, never processed
		TripTime:      50,
	})

	report := sim.Run()
	assert.Equal(t, 0, report.TotalResourcesSeen)
}

func TestSimulator_AddAgentSetsStartSearchTimeToZero(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	sim := newTestSimulator(m)

	a := &Agent{ID: 1, Location: citymap.LocationOnRoad{Road: r1}, NextEventTime: 100, StartSearchTime: 999}
	sim.AddAgent(a)

	require.True(t, sim.EmptyAgents.Contains(1))
	assert.Equal(t, int64(0), a.StartSearchTime)
	assert.Equal(t, IntersectionReached, a.Phase)
}

func TestSimulator_AddResourceComputesExpiration(t *testing.T) {
	m, r1, _ := threeRoadMap(t)
	sim := NewSimulator(m, nil, 1000, 120, 1)

	r := &Resource{ID: 1, Pickup: citymap.LocationOnRoad{Road: r1}, Dropoff: citymap.LocationOnRoad{Road: r1}, AvailableTime: 50}
	sim.AddResource(r)

	assert.Equal(t, int64(170), r.ExpirationTime)
	assert.Equal(t, ResourceBecomesAvailable, r.EventCause)
}
