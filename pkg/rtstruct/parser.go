package rtstruct

import (
	"errors"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "rtstruct")

var (
	// ErrMissingInput indicates the structure-set file could not be located
	// or opened.
	ErrMissingInput = errors.New("rtstruct: cannot open structure set")

	// ErrMalformedStructureSet indicates the record lacks the required
	// ROI declaration or contour group sequences. The parse is aborted and
	// no partial result is returned.
	ErrMalformedStructureSet = errors.New("rtstruct: structure set missing required sequences")
)

// DefaultZTolerance is the grid, in the same millimeter unit as patient
// coordinates, that contour z-levels are snapped to during parsing.
const DefaultZTolerance = 1e-3

// Options configures a Parse call.
type Options struct {
	// ZTolerance is the z quantization grid in mm. Zero or negative selects
	// DefaultZTolerance.
	ZTolerance float64

	// NameFilter, when non-nil, restricts parsing to regions whose name is
	// in the set. Filtered regions are dropped before contour accumulation.
	NameFilter map[string]struct{}
}

// Parse converts a Record into the regions it declares. Per-contour problems
// (bad point counts, degenerate polygons, references to undeclared ROIs) are
// logged and skipped; only a structurally empty record is fatal.
//
// The result is sorted by ROI id ascending. That order is the canonical
// region order for all downstream processing, so graph construction and
// coloring tie-breaks stay reproducible.
func Parse(rec *Record, opts Options) ([]*Region, error) {
	if rec == nil || len(rec.ROIs) == 0 || len(rec.Contours) == 0 {
		return nil, ErrMalformedStructureSet
	}
	tol := opts.ZTolerance
	if tol <= 0 {
		tol = DefaultZTolerance
	}

	declared := make(map[int]struct{}, len(rec.ROIs))
	regions := make(map[int]*Region, len(rec.ROIs))
	for _, d := range rec.ROIs {
		declared[d.Number] = struct{}{}
		if opts.NameFilter != nil {
			if _, ok := opts.NameFilter[d.Name]; !ok {
				continue
			}
		}
		regions[d.Number] = newRegion(d.Number, d.Name)
	}

	for _, grp := range rec.Contours {
		reg := regions[grp.ReferencedROI]
		if reg == nil {
			if _, ok := declared[grp.ReferencedROI]; !ok {
				log.Warnf("contour group references undeclared ROI %d, skipping", grp.ReferencedROI)
			}
			continue
		}
		for _, data := range grp.Contours {
			if len(data) == 0 || len(data)%3 != 0 {
				log.Warnf("ROI %d (%s): contour length %d is not a multiple of 3, skipping",
					reg.ID, reg.Name, len(data))
				continue
			}
			n := len(data) / 3
			ring := make([]geom.Point, n)
			zsum := 0.0
			for i := 0; i < n; i++ {
				ring[i] = geom.Point{X: data[3*i], Y: data[3*i+1]}
				zsum += data[3*i+2]
			}
			// Contours are assumed planar; the mean z tolerates
			// near-planar input.
			z := quantize(zsum/float64(n), tol)
			if err := reg.addContour(z, ring); err != nil {
				log.Warnf("ROI %d (%s): %v, skipping", reg.ID, reg.Name, err)
			}
		}
	}

	out := make([]*Region, 0, len(regions))
	for _, r := range regions {
		if r.Empty() {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// quantize snaps z to the nearest multiple of tol.
func quantize(z, tol float64) float64 {
	return math.Round(z/tol) * tol
}
