package scenario

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultZoneIDField is the shapefile attribute read as zone id when the
// scenario names none.
const DefaultZoneIDField = "ZONE"

// ApplyZoneShapes reads zone polygons from a shapefile and sets lon/lat of
// every zone that has no coordinates yet to its polygon centroid. Zones
// already located and polygons of unknown zones are left alone. It returns
// the number of zones located.
func ApplyZoneShapes(s *Scenario, path string) (int, error) {
	centroids, err := readZoneCentroids(path, s.Market.ZoneIDField)
	if err != nil {
		return 0, err
	}

	located := 0
	for i := range s.Market.Zones {
		z := &s.Market.Zones[i]
		if z.Lon != nil || z.Lat != nil {
			continue
		}
		c, ok := centroids[z.ID]
		if !ok {
			continue
		}
		lon, lat := c[0], c[1]
		z.Lon, z.Lat = &lon, &lat
		located++
	}
	return located, nil
}

func readZoneCentroids(path, idField string) (map[int]orb.Point, error) {
	if idField == "" {
		idField = DefaultZoneIDField
	}
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zone shapefile: %w", err)
	}
	defer r.Close()

	field := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), idField) {
			field = i
			break
		}
	}
	if field < 0 {
		return nil, fmt.Errorf("zone shapefile %s has no %s attribute", path, idField)
	}

	out := make(map[int]orb.Point)
	for r.Next() {
		n, shape := r.Shape()
		raw := strings.TrimFunc(r.ReadAttribute(n, field), func(c rune) bool {
			return c == ' ' || c == 0
		})
		id, err := strconv.Atoi(raw)
		if err != nil {
			// DBF numeric fields may carry a decimal part.
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return nil, fmt.Errorf("zone shapefile record %d: zone id %q is not a number", n, raw)
			}
			id = int(f)
		}
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("zone shapefile record %d is %T, want a polygon", n, shape)
		}
		out[id] = polygonCentroid(poly)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading zone shapefile: %w", err)
	}
	return out, nil
}

// polygonCentroid returns the area-weighted centroid of all parts of a
// shapefile polygon. Rings wound against the first ring are holes and
// subtract their area.
func polygonCentroid(p *shp.Polygon) orb.Point {
	var rings []orb.Ring
	for i, start := range p.Parts {
		end := p.NumPoints
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if len(ring) > 0 {
			rings = append(rings, ring)
		}
	}
	if len(rings) == 0 {
		return orb.Point{}
	}

	outer := rings[0].Orientation()
	var cx, cy, total float64
	for _, ring := range rings {
		c, area := planar.CentroidArea(ring)
		area = math.Abs(area)
		if ring.Orientation() != outer {
			area = -area
		}
		cx += c[0] * area
		cy += c[1] * area
		total += area
	}
	if total == 0 {
		return rings[0].Bound().Center()
	}
	return orb.Point{cx / total, cy / total}
}
