package dispatch

import (
	"testing"

	"github.com/ridesim/dispatch-sim/citymap"
)

// threeRoadMap builds X --R1(1000s)--> Y --R2(1000s)--> Z, speed_reduction 1.
func threeRoadMap(t *testing.T) (*citymap.Map, *citymap.Road, *citymap.Road) {
	t.Helper()
	intersections := []*citymap.Intersection{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0.01, Lon: 0},
		{ID: 3, Lat: 0.02, Lon: 0},
	}
	roads := []*citymap.Road{
		{ID: 1, From: 1, To: 2, TravelTime: 1000},
		{ID: 2, From: 2, To: 3, TravelTime: 1000},
	}
	m, err := citymap.New(intersections, roads, 1.0)
	if err != nil {
		t.Fatalf("building test map: %v", err)
	}
	return m, m.Roads[1], m.Roads[2]
}

func newTestSimulator(m *citymap.Map) *Simulator {
	return NewSimulator(m, nil, 1_000_000, 600, 1)
}
