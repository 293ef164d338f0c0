package rtstruct

import (
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// Region is one parsed region of interest: an id, a name, and the polygons
// lying on each quantized z-level, in patient-space coordinates. Regions are
// accumulated during parsing and read-only afterward.
type Region struct {
	ID   int
	Name string

	slices map[float64][]geom.Polygon
	levels []float64 // sorted ascending, one entry per key of slices
}

func newRegion(id int, name string) *Region {
	return &Region{
		ID:     id,
		Name:   name,
		slices: make(map[float64][]geom.Polygon),
	}
}

// addContour validates a ring and stores it under the given quantized
// z-level. A ring needs at least 3 points; exactly 3 points are closed by
// repeating the first; rings with zero area are rejected.
func (r *Region) addContour(z float64, ring []geom.Point) error {
	if len(ring) < 3 {
		return fmt.Errorf("contour has %d points, need at least 3", len(ring))
	}
	if len(ring) == 3 {
		ring = append(ring, ring[0])
	}
	poly := geom.Polygon{ring}
	if math.Abs(poly.Area()) == 0 {
		return fmt.Errorf("contour with %d points has zero area", len(ring))
	}
	if _, ok := r.slices[z]; !ok {
		i := sort.SearchFloat64s(r.levels, z)
		r.levels = append(r.levels, 0)
		copy(r.levels[i+1:], r.levels[i:])
		r.levels[i] = z
	}
	r.slices[z] = append(r.slices[z], poly)
	return nil
}

// Levels returns the region's quantized z-levels in ascending order. The
// returned slice is owned by the Region and must not be modified.
func (r *Region) Levels() []float64 {
	return r.levels
}

// PolygonsAt returns the polygons stored at the exact quantized z-level, or
// nil if the region has no contour there.
func (r *Region) PolygonsAt(z float64) []geom.Polygon {
	return r.slices[z]
}

// Empty reports whether no valid contour survived for this region.
func (r *Region) Empty() bool {
	return len(r.slices) == 0
}
