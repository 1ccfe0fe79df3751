package graph

// Kruskal computes the minimum spanning forest of g sequentially, using a
// disjoint-set with path compression and union by rank. It is used as a
// reference to verify the result of a distributed run. The returned edges are
// sorted by ascending weight.
func Kruskal(g *Graph) []Edge {
	parent := make(map[int]int, g.order)
	rank := make(map[int]int, g.order)
	for i := 1; i <= g.order; i++ {
		parent[i] = i
	}

	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}

	union := func(u, v int) bool {
		ru, rv := find(u), find(v)
		if ru == rv {
			return false
		}
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
		return true
	}

	// g.edges is already sorted by weight
	mst := []Edge{}
	for _, e := range g.edges {
		if union(e.Low, e.High) {
			mst = append(mst, e)
			if len(mst) == g.order-1 {
				break
			}
		}
	}
	return mst
}
