// Package mapio loads the external collaborators spec.md §1(a-c), §6 name
// but leave out of THE CORE: the road network, its hubs, the bounding
// polygon used to clip a resource trace, and the resource trace itself.
// Grounded on the teacher's cmd/hfconfig.go (JSON fetch-or-read) and
// sim/workload/tracev2.go (CSV/YAML trace parsing) for loader shape and
// error style.
package mapio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ridesim/dispatch-sim/citymap"
	"github.com/ridesim/dispatch-sim/dispatch"
)

// cityMapFile is the on-disk JSON shape for a road network (SPEC_FULL §C).
type cityMapFile struct {
	Intersections []struct {
		ID  int64   `json:"id"`
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"intersections"`
	Roads []struct {
		ID         int64 `json:"id"`
		From       int64 `json:"from"`
		To         int64 `json:"to"`
		TravelTime int64 `json:"travel_time_seconds"`
	} `json:"roads"`
	Hubs []int64 `json:"hubs"`
}

// LoadCityMap reads a road network from an OSM-derived JSON file, applies
// speedReduction (spec.md §6), and resolves the configured hub
// intersections into LocationOnRoad values for the dispatch scheduler's
// hub redirect (spec.md §4.7 step 5).
func LoadCityMap(path string, speedReduction float64) (*citymap.Map, []citymap.LocationOnRoad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &dispatch.SetupError{Reason: fmt.Sprintf("reading city map %s: %v", path, err)}
	}

	var file cityMapFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, &dispatch.SetupError{Reason: fmt.Sprintf("parsing city map %s: %v", path, err)}
	}

	intersections := make([]*citymap.Intersection, len(file.Intersections))
	for i, in := range file.Intersections {
		intersections[i] = &citymap.Intersection{ID: citymap.IntersectionID(in.ID), Lat: in.Lat, Lon: in.Lon}
	}
	roads := make([]*citymap.Road, len(file.Roads))
	for i, r := range file.Roads {
		roads[i] = &citymap.Road{
			ID:         citymap.RoadID(r.ID),
			From:       citymap.IntersectionID(r.From),
			To:         citymap.IntersectionID(r.To),
			TravelTime: r.TravelTime,
		}
	}

	m, err := citymap.New(intersections, roads, speedReduction)
	if err != nil {
		return nil, nil, &dispatch.SetupError{Reason: err.Error()}
	}

	hubs := make([]citymap.LocationOnRoad, 0, len(file.Hubs))
	for _, id := range file.Hubs {
		loc, ok := m.LocationAt(citymap.IntersectionID(id))
		if !ok {
			return nil, nil, &dispatch.SetupError{Reason: fmt.Sprintf("hub intersection %d has no roads to anchor a location on", id)}
		}
		hubs = append(hubs, loc)
	}

	return m, hubs, nil
}
