package graph

import (
	"fmt"
	"math"
)

// Infinite is greater than every real Weight. It is the initial best weight of
// a node searching for its minimum outgoing edge.
var Infinite = Weight{Value: math.MaxInt64, Low: math.MaxInt, High: math.MaxInt}

// Weight is the weight of an edge, extended with the ids of its endpoints so
// that no two edges of a graph share the same Weight.
type Weight struct {
	Value int64
	Low   int
	High  int
}

// NewWeight returns the Weight of an edge between a and b.
func NewWeight(value int64, a, b int) Weight {
	if a > b {
		a, b = b, a
	}
	return Weight{Value: value, Low: a, High: b}
}

// Compare returns -1, 0 or 1 depending on whether w is lower than, equal to,
// or greater than o.
func (w Weight) Compare(o Weight) int {
	switch {
	case w.Value != o.Value:
		return cmpInt64(w.Value, o.Value)
	case w.Low != o.Low:
		return cmpInt64(int64(w.Low), int64(o.Low))
	default:
		return cmpInt64(int64(w.High), int64(o.High))
	}
}

// Less reports whether w is strictly lower than o.
func (w Weight) Less(o Weight) bool {
	return w.Compare(o) < 0
}

// IsInfinite reports whether w is the Infinite sentinel.
func (w Weight) IsInfinite() bool {
	return w == Infinite
}

// String ...
func (w Weight) String() string {
	if w.IsInfinite() {
		return "[inf]"
	}
	return fmt.Sprintf("[%d,%d,%d]", w.Value, w.Low, w.High)
}

func cmpInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
