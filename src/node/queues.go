package node

import (
	"github.com/jensdewaard/dist-alg3/src/graph"
	"github.com/jensdewaard/dist-alg3/src/net"
)

// deferred is a message that arrived before the node could handle it, along
// with the edge it came in on.
type deferred struct {
	msg  *net.Message
	edge graph.Edge
}

// deferralQueue holds messages of one type in arrival order.
type deferralQueue struct {
	items []deferred
}

func (q *deferralQueue) push(msg *net.Message, edge graph.Edge) {
	q.items = append(q.items, deferred{msg: msg, edge: edge})
}

// popReady removes and returns the oldest item accepted by ready.
func (q *deferralQueue) popReady(ready func(deferred) bool) (deferred, bool) {
	for i, d := range q.items {
		if ready(d) {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = deferred{}
			q.items = q.items[:len(q.items)-1]
			return d, true
		}
	}
	return deferred{}, false
}

func (q *deferralQueue) Len() int {
	return len(q.items)
}
