package citymap

import (
	"github.com/uber/h3-go/v4"
)

// spatialResolution is the H3 cell resolution used to bucket intersections
// for nearest-point lookups (~175m edge length), matching the resolution a
// dispatch-relevant pack example uses for driver/rider matching.
const spatialResolution = 9

// spatialIndex buckets intersections into H3 cells so that map-matching raw
// lat/lon (mapio, out of THE CORE per spec §1) doesn't need a linear scan
// over every intersection. The dispatch scheduler's nearest-hub choice does
// not use it; it compares oracle travel times to every hub.
// Grounded in SPEC_FULL §B: this never answers a travel-time query itself,
// only narrows the candidate set before a GreatCircleDistance comparison.
type spatialIndex struct {
	cells map[h3.Cell][]IntersectionID
}

func newSpatialIndex(intersections map[IntersectionID]*Intersection) *spatialIndex {
	idx := &spatialIndex{cells: make(map[h3.Cell][]IntersectionID, len(intersections))}
	for id, in := range intersections {
		cell := cellFor(in.Lat, in.Lon)
		idx.cells[cell] = append(idx.cells[cell], id)
	}
	return idx
}

func cellFor(lat, lon float64) h3.Cell {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), spatialResolution)
	if err != nil {
		return 0
	}
	return cell
}

// candidatesNear returns intersection ids in the cell containing (lat, lon)
// and its k-ring neighbors, expanding k until at least one candidate is
// found or the ring exceeds maxRing.
func (idx *spatialIndex) candidatesNear(lat, lon float64, maxRing int) []IntersectionID {
	origin := cellFor(lat, lon)
	for k := 0; k <= maxRing; k++ {
		ring, err := origin.GridDisk(k)
		if err != nil {
			break
		}
		var out []IntersectionID
		for _, cell := range ring {
			out = append(out, idx.cells[cell]...)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// NearestIntersection returns the intersection closest (great-circle) to
// (lat, lon) among the candidates of the first non-empty k-ring around the
// containing H3 cell, or among all intersections if no ring up to k = 8
// has any. Intersections in farther rings are not compared, so one of them
// can lie closer than the result. Used by
// mapio's map-matching of raw trace coordinates. Returns false if the map
// has no intersections.
func (m *Map) NearestIntersection(lat, lon float64) (IntersectionID, bool) {
	candidates := m.index.candidatesNear(lat, lon, 8)
	if candidates == nil {
		// Fall back to a full scan; the map is sparse enough near its
		// boundary that no ring within the cap found a neighbor.
		for id := range m.Intersections {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	best := candidates[0]
	bestDist := m.distanceTo(best, lat, lon)
	for _, id := range candidates[1:] {
		d := m.distanceTo(id, lat, lon)
		if d < bestDist || (d == bestDist && id < best) {
			best = id
			bestDist = d
		}
	}
	return best, true
}

func (m *Map) distanceTo(id IntersectionID, lat, lon float64) float64 {
	in := m.Intersections[id]
	return GreatCircleDistance(in.Lat, in.Lon, lat, lon)
}
