package graph

import (
	"fmt"
	"sort"
)

// Edge is an undirected weighted edge. Endpoints are stored in canonical order
// so that Low < High. Edges are immutable values and can be used as map keys.
type Edge struct {
	Low    int
	High   int
	Weight Weight
}

// NewEdge returns the canonical edge between a and b with the given weight
// value. It fails with ErrInvalidEdge if a and b are equal.
func NewEdge(a, b int, value int64) (Edge, error) {
	if a == b {
		return Edge{}, fmt.Errorf("%w: endpoints are equal (%d)", ErrInvalidEdge, a)
	}
	if a > b {
		a, b = b, a
	}
	return Edge{
		Low:    a,
		High:   b,
		Weight: Weight{Value: value, Low: a, High: b},
	}, nil
}

// Compare orders edges by weight only.
func (e Edge) Compare(o Edge) int {
	return e.Weight.Compare(o.Weight)
}

// Touches reports whether id is one of the endpoints of e.
func (e Edge) Touches(id int) bool {
	return e.Low == id || e.High == id
}

// Other returns the endpoint of e opposite to id.
func (e Edge) Other(id int) (int, error) {
	switch id {
	case e.Low:
		return e.High, nil
	case e.High:
		return e.Low, nil
	default:
		return 0, fmt.Errorf("%w: node %d is not an endpoint of %v", ErrUnknownNeighbor, id, e)
	}
}

// String ...
func (e Edge) String() string {
	return fmt.Sprintf("[%d, %d]", e.Low, e.High)
}

// SortEdges sorts edges by ascending weight.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Compare(edges[j]) < 0
	})
}

// TotalWeight returns the sum of the weight values of edges.
func TotalWeight(edges []Edge) int64 {
	var total int64
	for _, e := range edges {
		total += e.Weight.Value
	}
	return total
}
