// Package citymap holds the immutable road-network data model and the
// travel-time oracle built on top of it (spec §3, §4.1).
package citymap

import (
	"fmt"
	"sort"
)

// IntersectionID uniquely identifies an Intersection.
type IntersectionID int64

// RoadID uniquely identifies a Road.
type RoadID int64

// Intersection is a node in the road graph. Immutable after construction.
type Intersection struct {
	ID  IntersectionID
	Lat float64
	Lon float64
}

// Road is a directed edge between two intersections with a scalar travel
// time in seconds. Immutable after construction.
type Road struct {
	ID         RoadID
	From       IntersectionID
	To         IntersectionID
	TravelTime int64 // seconds
}

// LocationOnRoad is a point along a Road: 0 <= TravelTimeFromStart <= Road.TravelTime.
// Value type.
type LocationOnRoad struct {
	Road                *Road
	TravelTimeFromStart int64
}

// Map is the immutable, shared, read-only road network plus the
// precomputed travel-time oracle over it.
type Map struct {
	Intersections map[IntersectionID]*Intersection
	Roads         map[RoadID]*Road

	// adjacency maps an intersection to the roads leaving it, used both for
	// oracle precomputation and for the search-policy collaborator.
	adjacency map[IntersectionID][]*Road

	oracle *oracle
	index  *spatialIndex
}

// New builds a Map from intersections and roads, applies speedReduction to
// every road's travel time (spec §6 "speed_reduction"), precomputes the
// all-pairs travel-time oracle, and builds the H3 spatial index used for
// nearest-intersection lookups (SPEC_FULL §B).
//
// speedReduction must be in (0, 1]; every road's travel time is divided by
// it, so values below 1 lengthen travel times to model a slower effective
// road speed. A value of 1 leaves travel times unchanged.
func New(intersections []*Intersection, roads []*Road, speedReduction float64) (*Map, error) {
	if speedReduction <= 0 || speedReduction > 1 {
		return nil, fmt.Errorf("citymap: speed_reduction must be in (0, 1], got %f", speedReduction)
	}
	if len(intersections) == 0 {
		return nil, fmt.Errorf("citymap: map has no intersections")
	}

	m := &Map{
		Intersections: make(map[IntersectionID]*Intersection, len(intersections)),
		Roads:         make(map[RoadID]*Road, len(roads)),
		adjacency:     make(map[IntersectionID][]*Road),
	}

	for _, in := range intersections {
		if _, exists := m.Intersections[in.ID]; exists {
			return nil, fmt.Errorf("citymap: duplicate intersection id %d", in.ID)
		}
		m.Intersections[in.ID] = in
	}

	for _, r := range roads {
		if _, ok := m.Intersections[r.From]; !ok {
			return nil, fmt.Errorf("citymap: road %d references unknown intersection %d", r.ID, r.From)
		}
		if _, ok := m.Intersections[r.To]; !ok {
			return nil, fmt.Errorf("citymap: road %d references unknown intersection %d", r.ID, r.To)
		}
		// Scale once at construction so the oracle's precomputed table
		// already reflects it (SPEC_FULL §D): TravelTime stays a pure,
		// deterministic function post-setup.
		scaled := *r
		scaled.TravelTime = int64(float64(r.TravelTime) / speedReduction)
		if scaled.TravelTime <= 0 {
			scaled.TravelTime = 1
		}
		m.Roads[r.ID] = &scaled
		m.adjacency[r.From] = append(m.adjacency[r.From], &scaled)
	}

	m.oracle = newOracle(m)
	m.index = newSpatialIndex(m.Intersections)

	return m, nil
}

// RoadsFrom returns the roads leaving the given intersection, in a stable
// order (by RoadID ascending), for use by search-policy collaborators.
func (m *Map) RoadsFrom(id IntersectionID) []*Road {
	roads := m.adjacency[id]
	out := make([]*Road, len(roads))
	copy(out, roads)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Intersection looks up an intersection by id.
func (m *Map) Intersection(id IntersectionID) (*Intersection, bool) {
	in, ok := m.Intersections[id]
	return in, ok
}

// LocationAt returns a LocationOnRoad sitting exactly at intersection id,
// for collaborators (mapio's map-matching, hub configuration) that only
// have an intersection to work with but need a LocationOnRoad value. It
// picks the intersection's first outgoing road at offset 0, falling back
// to the first incoming road at full length, in stable RoadID order.
func (m *Map) LocationAt(id IntersectionID) (LocationOnRoad, bool) {
	if out := m.RoadsFrom(id); len(out) > 0 {
		return LocationOnRoad{Road: out[0], TravelTimeFromStart: 0}, true
	}
	var best *Road
	for _, r := range m.Roads {
		if r.To != id {
			continue
		}
		if best == nil || r.ID < best.ID {
			best = r
		}
	}
	if best == nil {
		return LocationOnRoad{}, false
	}
	return LocationOnRoad{Road: best, TravelTimeFromStart: best.TravelTime}, true
}

// Coordinates approximates a LocationOnRoad's lat/lon by linearly
// interpolating between its road's endpoints, proportional to how far
// along the road it sits. Used by the benefit model (spec §4.6), which
// needs great-circle distance between map locations; actual travel-time
// queries always go through the oracle, never this approximation.
func (m *Map) Coordinates(loc LocationOnRoad) (lat, lon float64) {
	if loc.Road == nil {
		return 0, 0
	}
	from, okFrom := m.Intersections[loc.Road.From]
	to, okTo := m.Intersections[loc.Road.To]
	if !okFrom || !okTo {
		return 0, 0
	}
	if loc.Road.TravelTime == 0 {
		return from.Lat, from.Lon
	}
	frac := float64(loc.TravelTimeFromStart) / float64(loc.Road.TravelTime)
	return from.Lat + frac*(to.Lat-from.Lat), from.Lon + frac*(to.Lon-from.Lon)
}
