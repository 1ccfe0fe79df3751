package graph

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEdge(t *testing.T, a, b int, w int64) Edge {
	e, err := NewEdge(a, b, w)
	require.NoError(t, err)
	return e
}

func TestWeightCompare(t *testing.T) {
	w := Weight{1, 1, 1}

	assert.Equal(t, 0, w.Compare(Weight{1, 1, 1}))
	assert.Equal(t, -1, w.Compare(Weight{2, 2, 2}))
	assert.Equal(t, -1, w.Compare(Weight{1, 2, 2}))
	assert.Equal(t, -1, w.Compare(Weight{1, 1, 2}))
	assert.Equal(t, 1, Weight{2, 1, 1}.Compare(w))
	assert.Equal(t, 1, Weight{1, 2, 1}.Compare(w))
	assert.Equal(t, 1, Weight{1, 1, 2}.Compare(w))

	assert.NotEqual(t, w, Weight{3, 1, 1})
	assert.NotEqual(t, w, Weight{1, 2, 1})
	assert.NotEqual(t, w, Weight{1, 1, 2})
}

func TestWeightInfinite(t *testing.T) {
	assert.True(t, Infinite.IsInfinite())
	assert.Equal(t, 0, Infinite.Compare(Infinite))

	for _, w := range []Weight{
		{0, 0, 0},
		{math.MaxInt64 - 1, math.MaxInt - 1, math.MaxInt - 1},
		{math.MaxInt64, 1, 2},
	} {
		assert.True(t, w.Less(Infinite), "%v should be lower than infinity", w)
		assert.Equal(t, 1, Infinite.Compare(w))
	}
}

func TestWeightTransitive(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	ws := make([]Weight, 50)
	for i := range ws {
		ws[i] = NewWeight(int64(r.Intn(3)), r.Intn(4), r.Intn(4))
	}
	for _, a := range ws {
		for _, b := range ws {
			assert.Equal(t, -a.Compare(b), b.Compare(a))
			for _, c := range ws {
				if a.Less(b) && b.Less(c) {
					assert.True(t, a.Less(c), "%v < %v < %v", a, b, c)
				}
			}
		}
	}
}

func TestNewEdge(t *testing.T) {
	e12 := mustEdge(t, 1, 2, 1)
	e21 := mustEdge(t, 2, 1, 1)
	e23 := mustEdge(t, 2, 3, 1)

	assert.Equal(t, e12, e21)
	assert.NotEqual(t, e12, e23)
	assert.Equal(t, Weight{1, 1, 2}, e21.Weight)
	assert.Equal(t, 1, e21.Low)
	assert.Equal(t, 2, e21.High)

	_, err := NewEdge(3, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestEdgeCompareByWeight(t *testing.T) {
	e12 := mustEdge(t, 1, 2, 1)
	e23 := mustEdge(t, 2, 3, 1)
	e14 := mustEdge(t, 1, 4, 1)
	e34 := mustEdge(t, 3, 4, 0)

	edges := []Edge{e23, e14, e34, e12}
	SortEdges(edges)
	assert.Equal(t, []Edge{e34, e12, e14, e23}, edges)
}

func TestEdgeOther(t *testing.T) {
	e := mustEdge(t, 4, 1, 5)

	other, err := e.Other(1)
	require.NoError(t, err)
	assert.Equal(t, 4, other)

	other, err = e.Other(4)
	require.NoError(t, err)
	assert.Equal(t, 1, other)

	_, err = e.Other(2)
	assert.ErrorIs(t, err, ErrUnknownNeighbor)
}

func TestNewGraphValidation(t *testing.T) {
	e12 := mustEdge(t, 1, 2, 1)
	e23 := mustEdge(t, 2, 3, 2)

	_, err := NewGraph(3, []Edge{e12, e23, e12})
	assert.ErrorIs(t, err, ErrInvalidGraph)

	_, err = NewGraph(2, []Edge{e12, e23})
	assert.ErrorIs(t, err, ErrInvalidGraph)

	_, err = NewGraph(4, []Edge{e12, e23})
	assert.ErrorIs(t, err, ErrDisconnected)

	_, err = NewGraph(2, []Edge{mustEdge(t, 1, 2, math.MaxInt64)})
	assert.ErrorIs(t, err, ErrInvalidGraph)

	_, err = NewGraph(0, nil)
	assert.ErrorIs(t, err, ErrInvalidGraph)

	g, err := NewGraph(1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Order())
	_, ok := g.Lightest()
	assert.False(t, ok)
}

func TestIncidentEdgesSorted(t *testing.T) {
	g, err := Parse(strings.NewReader(`4
# ring
1 2 3
2 3 1
3 4 4
4 1 2
`))
	require.NoError(t, err)

	inc, err := g.IncidentEdges(1)
	require.NoError(t, err)
	assert.Equal(t, []Edge{mustEdge(t, 1, 4, 2), mustEdge(t, 1, 2, 3)}, inc)

	light, ok := g.Lightest()
	require.True(t, ok)
	assert.Equal(t, mustEdge(t, 2, 3, 1), light)

	_, err = g.IncidentEdges(5)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"2 3\n",
		"2\n1 2\n",
		"2\n1 x 3\n",
		"2\n1 1 3\n",
	} {
		_, err := Parse(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestKruskal(t *testing.T) {
	g, err := NewGraph(4, []Edge{
		mustEdge(t, 1, 2, 1),
		mustEdge(t, 2, 3, 1),
		mustEdge(t, 3, 4, 1),
		mustEdge(t, 1, 4, 1),
	})
	require.NoError(t, err)

	mst := Kruskal(g)
	assert.Equal(t, []Edge{
		mustEdge(t, 1, 2, 1),
		mustEdge(t, 1, 4, 1),
		mustEdge(t, 2, 3, 1),
	}, mst)
	assert.Equal(t, int64(3), TotalWeight(mst))
}

func TestRandomIsConnected(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 1; n < 30; n += 7 {
		g := Random(r, n, 2*n, 10)
		assert.Equal(t, n, g.Order())
		assert.Len(t, Kruskal(g), n-1)
	}
}
