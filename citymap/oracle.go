package citymap

import (
	"container/heap"
	"math"
)

// earthRadiusMeters is used by GreatCircleDistance. No third-party geo
// library in the retrieval pack offers a haversine helper (DESIGN.md), so
// this stays on the standard library.
const earthRadiusMeters = 6371000.0

// oracle is the precomputed all-pairs shortest travel time table between
// intersections (spec §4.1). Built once at Map construction; read-only
// afterwards, making TravelTime a deterministic, total function.
type oracle struct {
	allPairs map[IntersectionID]map[IntersectionID]int64
}

func newOracle(m *Map) *oracle {
	o := &oracle{allPairs: make(map[IntersectionID]map[IntersectionID]int64, len(m.Intersections))}
	for id := range m.Intersections {
		o.allPairs[id] = dijkstra(m, id)
	}
	return o
}

// heapItem is a single entry in the Dijkstra priority queue.
type heapItem struct {
	id   IntersectionID
	dist int64
}

type dijkstraHeap []heapItem

func (h dijkstraHeap) Len() int            { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h dijkstraHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *dijkstraHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstra computes shortest travel times from src to every reachable
// intersection. Unreachable intersections are simply absent from the
// result map.
func dijkstra(m *Map, src IntersectionID) map[IntersectionID]int64 {
	dist := map[IntersectionID]int64{src: 0}
	visited := make(map[IntersectionID]bool, len(m.Intersections))

	pq := &dijkstraHeap{{id: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(heapItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		for _, road := range m.adjacency[cur.id] {
			next := cur.dist + road.TravelTime
			if d, ok := dist[road.To]; !ok || next < d {
				dist[road.To] = next
				heap.Push(pq, heapItem{id: road.To, dist: next})
			}
		}
	}

	return dist
}

// intersectionTime returns the shortest travel time between two
// intersections, or a large sentinel if unreachable.
func (o *oracle) intersectionTime(a, b IntersectionID) int64 {
	if a == b {
		return 0
	}
	if times, ok := o.allPairs[a]; ok {
		if t, ok := times[b]; ok {
			return t
		}
	}
	return math.MaxInt64 / 2
}

// TravelTime answers travel_time(a, b) (spec §4.1): total, monotone in edge
// weights, same-road pairs return the along-road delta.
func (m *Map) TravelTime(a, b LocationOnRoad) int64 {
	if a.Road != nil && b.Road != nil && a.Road.ID == b.Road.ID {
		return b.TravelTimeFromStart - a.TravelTimeFromStart
	}

	remainingOnA := int64(0)
	if a.Road != nil {
		remainingOnA = a.Road.TravelTime - a.TravelTimeFromStart
	}

	var fromIntersection IntersectionID
	if a.Road != nil {
		fromIntersection = a.Road.To
	}
	var toIntersection IntersectionID
	offsetOnB := int64(0)
	if b.Road != nil {
		toIntersection = b.Road.From
		offsetOnB = b.TravelTimeFromStart
	}

	return remainingOnA + m.oracle.intersectionTime(fromIntersection, toIntersection) + offsetOnB
}

// GreatCircleDistance returns the distance in meters between two lat/lon
// points using the haversine formula (spec §4.1).
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
