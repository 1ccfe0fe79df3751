package graph

import "math/rand"

// Random returns a connected graph with n vertices: a random spanning chain
// plus up to extra additional edges between random pairs. Weight values are
// drawn from [1, maxWeight]; ties are resolved by the endpoint ids.
func Random(r *rand.Rand, n, extra int, maxWeight int64) *Graph {
	if maxWeight < 1 {
		maxWeight = 1
	}

	perm := r.Perm(n)
	seen := make(map[[2]int]bool)
	edges := []Edge{}

	add := func(a, b int) {
		e, err := NewEdge(a, b, 1+r.Int63n(maxWeight))
		if err != nil {
			return
		}
		key := [2]int{e.Low, e.High}
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, e)
	}

	for i := 1; i < n; i++ {
		add(perm[i-1]+1, perm[i]+1)
	}

	for i := 0; i < extra && n > 2; i++ {
		add(r.Intn(n)+1, r.Intn(n)+1)
	}

	g, err := NewGraph(n, edges)
	if err != nil {
		// the chain keeps the graph connected and add() filters everything
		// NewGraph rejects
		panic(err)
	}
	return g
}
