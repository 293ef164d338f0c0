// Package overlap builds the pairwise conflict graph between regions and
// splits them into non-overlapping display groups by greedy graph coloring.
package overlap

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"rtsplit/pkg/rtstruct"
)

var log = logrus.WithField("component", "overlap")

// Graph is an undirected conflict graph over region names. Vertices keep the
// canonical order they were added in; adjacency is stored as index sets so
// coloring never depends on map iteration order.
type Graph struct {
	names []string
	index map[string]int
	adj   []map[int]struct{}
}

// NewGraph creates a graph whose vertices are the given names, in that
// canonical order, with no edges.
func NewGraph(names []string) *Graph {
	g := &Graph{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		adj:   make([]map[int]struct{}, len(names)),
	}
	for i, n := range names {
		g.index[n] = i
		g.adj[i] = make(map[int]struct{})
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.names)
}

// Names returns the vertices in canonical order. The slice is owned by the
// graph and must not be modified.
func (g *Graph) Names() []string {
	return g.names
}

// AddEdge marks a and b as conflicting. The edge is symmetric; self-loops and
// unknown names are ignored.
func (g *Graph) AddEdge(a, b string) {
	i, ok := g.index[a]
	if !ok {
		return
	}
	j, ok := g.index[b]
	if !ok || i == j {
		return
	}
	g.adj[i][j] = struct{}{}
	g.adj[j][i] = struct{}{}
}

// Adjacent reports whether a and b conflict.
func (g *Graph) Adjacent(a, b string) bool {
	i, ok := g.index[a]
	if !ok {
		return false
	}
	j, ok := g.index[b]
	if !ok {
		return false
	}
	_, ok = g.adj[i][j]
	return ok
}

// Degree returns the number of neighbors of the named vertex.
func (g *Graph) Degree(name string) int {
	if i, ok := g.index[name]; ok {
		return len(g.adj[i])
	}
	return 0
}

// Neighbors returns the names adjacent to name, in canonical vertex order.
func (g *Graph) Neighbors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	idxs := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		idxs = append(idxs, j)
	}
	sort.Ints(idxs)
	out := make([]string, len(idxs))
	for k, j := range idxs {
		out[k] = g.names[j]
	}
	return out
}

// Build constructs the conflict graph for the given regions, in their given
// (canonical) order. Two regions conflict when any of their polygons
// intersect with positive area on a shared quantized z-level. Region pairs
// with disjoint z-level sets are skipped without any geometry work.
//
// The pairwise search is the only super-linear phase, so ctx is checked
// between region pairs; a canceled context aborts with ctx.Err().
func Build(ctx context.Context, regions []*rtstruct.Region) (*Graph, error) {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	g := NewGraph(names)

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			if regionsIntersect(regions[i], regions[j]) {
				g.AddEdge(names[i], names[j])
			}
		}
	}
	return g, nil
}

// regionsIntersect reports whether two regions overlap on any shared
// z-level, short-circuiting on the first intersecting polygon pair.
func regionsIntersect(a, b *rtstruct.Region) bool {
	for _, z := range a.Levels() {
		pbs := b.PolygonsAt(z)
		if len(pbs) == 0 {
			continue
		}
		for _, pa := range a.PolygonsAt(z) {
			ba := pa.Bounds()
			for _, pb := range pbs {
				bb := pb.Bounds()
				if ba.Max.X < bb.Min.X || bb.Max.X < ba.Min.X {
					continue
				}
				if ba.Max.Y < bb.Min.Y || bb.Max.Y < ba.Min.Y {
					continue
				}
				if polygonsIntersect(pa, pb) {
					return true
				}
			}
		}
	}
	return false
}

// polygonsIntersect tests for positive intersection area. If the exact
// clipping fails, it falls back to a conservative vertex-containment
// predicate rather than aborting the whole build.
func polygonsIntersect(pa, pb geom.Polygon) bool {
	area, err := intersectionArea(pa, pb)
	if err == nil && !math.IsNaN(area) {
		return area > 0
	}
	log.Warnf("polygon intersection failed (%v), falling back to containment test", err)
	return anyVertexWithin(pa, pb) || anyVertexWithin(pb, pa)
}

func intersectionArea(pa, pb geom.Polygon) (area float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clip: %v", r)
		}
	}()
	return math.Abs(pa.Intersection(pb).Area()), nil
}

func anyVertexWithin(pa, pb geom.Polygon) bool {
	for _, ring := range pa {
		for _, p := range ring {
			if p.Within(pb) == geom.Inside {
				return true
			}
		}
	}
	return false
}
