package rasterize

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/ctessum/geom"

	"rtsplit/pkg/geometry"
	"rtsplit/pkg/rtstruct"
)

// Rasterizer turns regions into per-slice masks for one volume geometry. The
// coordinate transform is built once at construction; a singular direction
// matrix surfaces there as geometry.ErrSingularDirection.
type Rasterizer struct {
	geom *geometry.VolumeGeometry
	tr   *geometry.Transform
}

// New builds a Rasterizer for the given volume geometry.
func New(g *geometry.VolumeGeometry) (*Rasterizer, error) {
	tr, err := geometry.NewTransform(g)
	if err != nil {
		return nil, err
	}
	return &Rasterizer{geom: g, tr: tr}, nil
}

// Region rasterizes one region against the volume. The result maps slice
// index to mask for exactly the slices that received at least one non-empty
// contribution; slices without any contour are absent.
//
// Each contour's vertices are transformed to index space; the distinct
// rounded z indices (math.Round, ties away from zero) inside [0, depth) are
// the contour's target slices. A vertex set rounding to more than one slice
// near a boundary contributes to all of them. Multiple contours landing on
// one slice are combined with logical OR: an inner ring meant as a hole still
// adds area, matching the union-only reference behavior.
func (r *Rasterizer) Region(region *rtstruct.Region) map[int]*Mask {
	out := make(map[int]*Mask)
	for _, z := range region.Levels() {
		for _, poly := range region.PolygonsAt(z) {
			ring := poly[0]
			pts := make([]geometry.Point3, len(ring))
			for i, p := range ring {
				pts[i] = geometry.Point3{X: p.X, Y: p.Y, Z: z}
			}
			idx := r.tr.ToIndexBatch(pts)

			proj := make([]geom.Point, len(idx))
			targets := make(map[int]struct{})
			for i, q := range idx {
				proj[i] = geom.Point{X: q.X, Y: q.Y}
				targets[int(math.Round(q.Z))] = struct{}{}
			}
			if len(proj) < 3 {
				continue
			}

			var mask *Mask
			for k := range targets {
				if k < 0 || k >= r.geom.Depth {
					continue
				}
				if mask == nil {
					mask = rasterizeRing(proj, r.geom.Width, r.geom.Height)
					if mask.Empty() {
						break
					}
				}
				if existing, ok := out[k]; ok {
					existing.Or(mask)
				} else {
					copied := NewMask(r.geom.Width, r.geom.Height)
					copied.Or(mask)
					out[k] = copied
				}
			}
		}
	}
	return out
}

// rasterizeRing fills a mask by point-in-polygon testing every integer pixel
// inside the ring's bounding box, clipped to the mask bounds. Pixels on the
// boundary count as inside.
func rasterizeRing(ring []geom.Point, width, height int) *Mask {
	poly := geom.Polygon{ring}
	b := poly.Bounds()

	minX := int(math.Floor(b.Min.X))
	maxX := int(math.Ceil(b.Max.X))
	minY := int(math.Floor(b.Min.Y))
	maxY := int(math.Ceil(b.Max.Y))
	if minX < 0 {
		minX = 0
	}
	if maxX > width-1 {
		maxX = width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > height-1 {
		maxY = height - 1
	}

	mask := NewMask(width, height)
	if minX > maxX || minY > maxY {
		return mask
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := geom.Point{X: float64(x), Y: float64(y)}
			if p.Within(poly) != geom.Outside {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

// All rasterizes every region on a bounded worker pool and returns the masks
// keyed by region name. workers < 1 selects the number of CPUs. Regions are
// independent, so the result is identical to sequential calls to Region.
func (r *Rasterizer) All(regions []*rtstruct.Region, workers int) map[string]map[int]*Mask {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	type result struct {
		name  string
		masks map[int]*Mask
	}
	jobs := make(chan *rtstruct.Region)
	results := make(chan result, len(regions))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for reg := range jobs {
				results <- result{name: reg.Name, masks: r.Region(reg)}
			}
		}()
	}
	go func() {
		for _, reg := range regions {
			jobs <- reg
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	out := make(map[string]map[int]*Mask, len(regions))
	for res := range results {
		out[res.name] = res.masks
	}
	return out
}

// Rasterize is a convenience wrapper building a throwaway Rasterizer for one
// region. Callers rasterizing many regions against the same geometry should
// construct a Rasterizer once instead.
func Rasterize(region *rtstruct.Region, g *geometry.VolumeGeometry) (map[int]*Mask, error) {
	r, err := New(g)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", region.Name, err)
	}
	return r.Region(region), nil
}
