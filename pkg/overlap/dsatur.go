package overlap

// Assignment maps each region name to a non-negative group color such that
// adjacent regions never share a color.
type Assignment struct {
	colors map[string]int
	order  []string // names in the order they were colored
	groups int
}

// ColorGraph colors the graph with the DSATUR heuristic: repeatedly pick the
// uncolored vertex with the highest saturation (distinct colors among colored
// neighbors), breaking ties by highest degree, then by lowest canonical
// vertex index, and give it the smallest color unused by its neighbors.
//
// The heuristic does not guarantee a minimum color count, but its output is
// deterministic for a fixed graph and vertex order.
func ColorGraph(g *Graph) *Assignment {
	n := g.Len()
	colors := make([]int, n)
	sat := make([]map[int]struct{}, n)
	deg := make([]int, n)
	for i := 0; i < n; i++ {
		colors[i] = -1
		sat[i] = make(map[int]struct{})
		deg[i] = len(g.adj[i])
	}

	a := &Assignment{
		colors: make(map[string]int, n),
		order:  make([]string, 0, n),
	}

	for colored := 0; colored < n; colored++ {
		v := -1
		for i := 0; i < n; i++ {
			if colors[i] >= 0 {
				continue
			}
			if v < 0 ||
				len(sat[i]) > len(sat[v]) ||
				(len(sat[i]) == len(sat[v]) && deg[i] > deg[v]) {
				v = i
			}
		}

		c := 0
		for {
			if _, used := sat[v][c]; !used {
				break
			}
			c++
		}
		colors[v] = c
		if c+1 > a.groups {
			a.groups = c + 1
		}
		a.colors[g.names[v]] = c
		a.order = append(a.order, g.names[v])

		for u := range g.adj[v] {
			if colors[u] < 0 {
				sat[u][c] = struct{}{}
			}
		}
	}
	return a
}

// Color returns the group assigned to a region name.
func (a *Assignment) Color(name string) (int, bool) {
	c, ok := a.colors[name]
	return c, ok
}

// Groups returns the number of colors used.
func (a *Assignment) Groups() int {
	return a.groups
}

// Partition returns the inverse view: one slice of region names per color,
// each ordered by when its members were colored.
func (a *Assignment) Partition() [][]string {
	groups := make([][]string, a.groups)
	for _, name := range a.order {
		c := a.colors[name]
		groups[c] = append(groups[c], name)
	}
	return groups
}
