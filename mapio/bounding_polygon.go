package mapio

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ridesim/dispatch-sim/dispatch"
)

// Point is a bare lat/lon pair, used only for polygon clipping; map
// locations elsewhere in the module are always citymap.LocationOnRoad.
type Point struct {
	Lat float64
	Lon float64
}

// BoundingPolygon clips a resource trace to the operating area spec.md §6
// names as "bounding_polygon" — a closed ring of lat/lon vertices.
type BoundingPolygon struct {
	vertices []Point
}

// kmlDocument is the minimal subset of KML this module understands: a
// single Polygon's outer boundary ring.
type kmlDocument struct {
	XMLName  xml.Name `xml:"kml"`
	Document struct {
		Placemark struct {
			Polygon struct {
				OuterBoundaryIs struct {
					LinearRing struct {
						Coordinates string `xml:"coordinates"`
					} `xml:"LinearRing"`
				} `xml:"outerBoundaryIs"`
			} `xml:"Polygon"`
		} `xml:"Placemark"`
	} `xml:"Document"`
}

// LoadBoundingPolygon reads a KML file's outer boundary ring as a
// BoundingPolygon (spec.md §6 "bounding_polygon").
func LoadBoundingPolygon(path string) (*BoundingPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("reading bounding polygon %s: %v", path, err)}
	}

	var doc kmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("parsing bounding polygon %s: %v", path, err)}
	}

	raw := strings.Fields(doc.Document.Placemark.Polygon.OuterBoundaryIs.LinearRing.Coordinates)
	if len(raw) < 3 {
		return nil, &dispatch.SetupError{Reason: fmt.Sprintf("bounding polygon %s: fewer than 3 vertices", path)}
	}

	vertices := make([]Point, 0, len(raw))
	for _, tuple := range raw {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("bounding polygon %s: malformed coordinate %q", path, tuple)}
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("bounding polygon %s: %v", path, err)}
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, &dispatch.SetupError{Reason: fmt.Sprintf("bounding polygon %s: %v", path, err)}
		}
		vertices = append(vertices, Point{Lat: lat, Lon: lon})
	}

	return &BoundingPolygon{vertices: vertices}, nil
}

// Contains reports whether (lat, lon) falls inside the polygon, via the
// standard even-odd ray-casting test.
func (b *BoundingPolygon) Contains(lat, lon float64) bool {
	inside := false
	n := len(b.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := b.vertices[i], b.vertices[j]
		crosses := (vi.Lon > lon) != (vj.Lon > lon)
		if !crosses {
			continue
		}
		xIntersect := (vj.Lat-vi.Lat)*(lon-vi.Lon)/(vj.Lon-vi.Lon) + vi.Lat
		if lat < xIntersect {
			inside = !inside
		}
	}
	return inside
}
