package mapio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ridesim/dispatch-sim/citymap"
	"github.com/ridesim/dispatch-sim/dispatch"
)

// traceColumns lists the columns a resource trace CSV must have; they are
// looked up by header name, in any order, matching the header-driven
// column layout of the teacher's trace v2 format
// (sim/workload/tracev2.go) adapted to resource arrivals instead of
// request arrivals.
var traceColumns = []string{
	"resource_id", "pickup_lat", "pickup_lon", "dropoff_lat", "dropoff_lon",
	"available_time", "trip_time",
}

// LoadResourceTrace reads a CSV trace of resource arrivals, map-matches
// each pickup/dropoff lat/lon onto the nearest intersection of m (spec.md
// §1 item c, "map-matches raw coordinates onto the road network"), and
// returns them in file order. Rows whose pickup falls outside polygon are
// skipped if polygon is non-nil (spec.md §6 "bounding_polygon").
func LoadResourceTrace(path string, m *citymap.Map, polygon *BoundingPolygon) ([]*dispatch.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("reading resource trace %s: %v", path, err)}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s: empty file", path)}
	}
	col, err := columnIndex(header)
	if err != nil {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s: %v", path, err)}
	}

	var out []*dispatch.Resource
	for lineNo := 2; ; lineNo++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}

		pickupLat, err := strconv.ParseFloat(row[col["pickup_lat"]], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}
		pickupLon, err := strconv.ParseFloat(row[col["pickup_lon"]], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}

		if polygon != nil && !polygon.Contains(pickupLat, pickupLon) {
			continue
		}

		dropoffLat, err := strconv.ParseFloat(row[col["dropoff_lat"]], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}
		dropoffLon, err := strconv.ParseFloat(row[col["dropoff_lon"]], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}

		resourceID, err := strconv.ParseInt(row[col["resource_id"]], 10, 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}
		availableTime, err := strconv.ParseInt(row[col["available_time"]], 10, 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}
		tripTime, err := strconv.ParseInt(row[col["trip_time"]], 10, 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: %v", path, lineNo, err)}
		}

		pickupID, ok := m.NearestIntersection(pickupLat, pickupLon)
		if !ok {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: map has no intersections to match against", path, lineNo)}
		}
		pickup, ok := m.LocationAt(pickupID)
		if !ok {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: matched intersection %d has no anchoring road", path, lineNo, pickupID)}
		}
		dropoffID, _ := m.NearestIntersection(dropoffLat, dropoffLon)
		dropoff, ok := m.LocationAt(dropoffID)
		if !ok {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("resource trace %s line %d: matched intersection %d has no anchoring road", path, lineNo, dropoffID)}
		}

		out = append(out, &dispatch.Resource{
			ID:            dispatch.ResourceID(resourceID),
			Pickup:        pickup,
			Dropoff:       dropoff,
			AvailableTime: availableTime,
			TripTime:      tripTime,
		})
	}

	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, want := range traceColumns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return idx, nil
}
