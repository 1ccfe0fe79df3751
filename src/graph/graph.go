package graph

import (
	"fmt"
	"math"
)

// Graph is a validated, connected, undirected graph with vertices numbered
// from 1 to Order(). It is read-only once built and safe for concurrent use.
type Graph struct {
	order    int
	edges    []Edge
	incident map[int][]Edge
}

// NewGraph validates edges and builds a Graph with n vertices. Every edge must
// join two distinct vertices in [1, n], no pair of vertices may be joined
// twice, weights must be below the Infinite sentinel, and the graph must be
// connected.
func NewGraph(n int, edges []Edge) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: a graph needs at least one vertex", ErrInvalidGraph)
	}

	g := &Graph{
		order:    n,
		edges:    make([]Edge, 0, len(edges)),
		incident: make(map[int][]Edge, n),
	}

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e.Low == e.High {
			return nil, fmt.Errorf("%w: self loop on %d", ErrInvalidEdge, e.Low)
		}
		if e.Low > e.High || e.Weight.Low != e.Low || e.Weight.High != e.High {
			return nil, fmt.Errorf("%w: edge %v is not canonical", ErrInvalidGraph, e)
		}
		if e.Low < 1 || e.High > n {
			return nil, fmt.Errorf("%w: edge %v out of range 1..%d", ErrInvalidGraph, e, n)
		}
		if e.Weight.Value == math.MaxInt64 {
			return nil, fmt.Errorf("%w: edge %v uses a reserved weight", ErrInvalidGraph, e)
		}
		key := [2]int{e.Low, e.High}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate edge %v", ErrInvalidGraph, e)
		}
		seen[key] = true

		g.edges = append(g.edges, e)
		g.incident[e.Low] = append(g.incident[e.Low], e)
		g.incident[e.High] = append(g.incident[e.High], e)
	}

	SortEdges(g.edges)
	for _, inc := range g.incident {
		SortEdges(inc)
	}

	if len(Kruskal(g)) != n-1 {
		return nil, ErrDisconnected
	}

	return g, nil
}

// Order returns the number of vertices.
func (g *Graph) Order() int {
	return g.order
}

// Vertices returns the vertex ids in ascending order.
func (g *Graph) Vertices() []int {
	res := make([]int, 0, g.order)
	for i := 1; i <= g.order; i++ {
		res = append(res, i)
	}
	return res
}

// Edges returns a copy of all edges sorted by ascending weight.
func (g *Graph) Edges() []Edge {
	res := make([]Edge, len(g.edges))
	copy(res, g.edges)
	return res
}

// IncidentEdges returns a copy of the edges incident on id, sorted by
// ascending weight. This is the only view of the graph a GHS node gets.
func (g *Graph) IncidentEdges(id int) ([]Edge, error) {
	if id < 1 || id > g.order {
		return nil, fmt.Errorf("%w: no vertex %d", ErrInvalidGraph, id)
	}
	inc := g.incident[id]
	res := make([]Edge, len(inc))
	copy(res, inc)
	return res, nil
}

// Lightest returns the edge with the globally lowest weight. Its lower
// endpoint is the default spontaneous initiator of a GHS run.
func (g *Graph) Lightest() (Edge, bool) {
	if len(g.edges) == 0 {
		return Edge{}, false
	}
	return g.edges[0], true
}
