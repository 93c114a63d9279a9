package citymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func threeNodeMap(t *testing.T, speedReduction float64) *Map {
	t.Helper()
	intersections := []*Intersection{
		{ID: 1, Lat: 40.0, Lon: -73.0},
		{ID: 2, Lat: 40.01, Lon: -73.0},
		{ID: 3, Lat: 40.02, Lon: -73.0},
	}
	roads := []*Road{
		{ID: 1, From: 1, To: 2, TravelTime: 100},
		{ID: 2, From: 2, To: 3, TravelTime: 200},
	}
	m, err := New(intersections, roads, speedReduction)
	require.NoError(t, err)
	return m
}

func TestNew_RejectsInvalidSpeedReduction(t *testing.T) {
	_, err := New([]*Intersection{{ID: 1}}, nil, 0)
	require.Error(t, err)

	_, err = New([]*Intersection{{ID: 1}}, nil, 1.5)
	require.Error(t, err)
}

func TestNew_RejectsRoadWithUnknownIntersection(t *testing.T) {
	_, err := New(
		[]*Intersection{{ID: 1}},
		[]*Road{{ID: 1, From: 1, To: 99, TravelTime: 10}},
		1.0,
	)
	require.Error(t, err)
}

func TestNew_AppliesSpeedReductionOnce(t *testing.T) {
	// GIVEN a map built with speed_reduction = 0.5
	m := threeNodeMap(t, 0.5)

	// THEN every road's travel time is scaled by 1/0.5
	road := m.Roads[1]
	require.Equal(t, int64(200), road.TravelTime)
}

func TestTravelTime_SameRoad_ReturnsAlongRoadDelta(t *testing.T) {
	m := threeNodeMap(t, 1.0)
	road := m.Roads[1]

	a := LocationOnRoad{Road: road, TravelTimeFromStart: 10}
	b := LocationOnRoad{Road: road, TravelTimeFromStart: 60}

	require.Equal(t, int64(50), m.TravelTime(a, b))
}

func TestTravelTime_AcrossRoads_UsesOracle(t *testing.T) {
	// GIVEN a agent mid-way on road 1, and a target mid-way on road 2
	m := threeNodeMap(t, 1.0)
	road1 := m.Roads[1]
	road2 := m.Roads[2]

	a := LocationOnRoad{Road: road1, TravelTimeFromStart: 40} // 60s remaining on road1
	b := LocationOnRoad{Road: road2, TravelTimeFromStart: 30} // 30s into road2

	// 60 (remainder of road1) + 0 (road1.To == road2.From, same intersection) + 30
	require.Equal(t, int64(90), m.TravelTime(a, b))
}

func TestGreatCircleDistance_SamePointIsZero(t *testing.T) {
	require.InDelta(t, 0.0, GreatCircleDistance(40.0, -73.0, 40.0, -73.0), 1e-9)
}

func TestGreatCircleDistance_Monotone(t *testing.T) {
	near := GreatCircleDistance(40.0, -73.0, 40.001, -73.0)
	far := GreatCircleDistance(40.0, -73.0, 40.1, -73.0)
	require.Less(t, near, far)
}

func TestNearestIntersection_ReturnsClosest(t *testing.T) {
	m := threeNodeMap(t, 1.0)

	id, ok := m.NearestIntersection(40.019, -73.0)
	require.True(t, ok)
	require.Equal(t, IntersectionID(3), id)
}

func TestLocationAt_PrefersOutgoingRoad(t *testing.T) {
	m := threeNodeMap(t, 1.0)

	loc, ok := m.LocationAt(2)
	require.True(t, ok)
	require.Equal(t, RoadID(2), loc.Road.ID)
	require.Equal(t, int64(0), loc.TravelTimeFromStart)
}

func TestLocationAt_FallsBackToIncomingRoadAtDeadEnd(t *testing.T) {
	m := threeNodeMap(t, 1.0)

	loc, ok := m.LocationAt(3)
	require.True(t, ok)
	require.Equal(t, RoadID(2), loc.Road.ID)
	require.Equal(t, loc.Road.TravelTime, loc.TravelTimeFromStart)
}

func TestLocationAt_UnknownIntersection(t *testing.T) {
	m := threeNodeMap(t, 1.0)

	_, ok := m.LocationAt(99)
	require.False(t, ok)
}
