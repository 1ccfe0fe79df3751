package net

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateMessage is returned by the Reorderer when a message carries a
// clock that was already delivered on its edge.
var ErrDuplicateMessage = errors.New("duplicate message")

// SendClocks stamps outgoing messages with a per-neighbour sequence number.
// It is safe for concurrent use so that sends issued from different goroutines
// still receive distinct, gap-free clocks.
type SendClocks struct {
	sync.Mutex
	next map[int]uint64
}

// NewSendClocks creates a SendClocks with every counter at zero.
func NewSendClocks() *SendClocks {
	return &SendClocks{
		next: make(map[int]uint64),
	}
}

// Stamp returns the clock to put on the next message sent to neighbor, and
// advances the counter.
func (s *SendClocks) Stamp(neighbor int) uint64 {
	s.Lock()
	defer s.Unlock()
	c := s.next[neighbor]
	s.next[neighbor] = c + 1
	return c
}

// Reorderer releases incoming messages in the order their sender stamped them,
// independently for each incoming edge. Messages that arrive early wait in a
// per-edge buffer ordered by clock. Reorderer is not safe for concurrent use;
// it belongs to the event loop of a single node.
type Reorderer struct {
	expected map[int]uint64
	pending  map[int]*clockHeap
}

// NewReorderer creates an empty Reorderer.
func NewReorderer() *Reorderer {
	return &Reorderer{
		expected: make(map[int]uint64),
		pending:  make(map[int]*clockHeap),
	}
}

// Receive accepts a message from the network and returns the messages that are
// now deliverable, in send order. The slice is empty when msg arrived ahead of
// an earlier message on the same edge.
func (r *Reorderer) Receive(msg *Message) ([]*Message, error) {
	exp := r.expected[msg.From]

	if msg.Clock < exp {
		return nil, fmt.Errorf("%w: %s, expected clock %d", ErrDuplicateMessage, msg, exp)
	}

	h, ok := r.pending[msg.From]
	if !ok {
		h = &clockHeap{}
		r.pending[msg.From] = h
	}

	if msg.Clock > exp {
		if h.contains(msg.Clock) {
			return nil, fmt.Errorf("%w: %s already buffered", ErrDuplicateMessage, msg)
		}
		heap.Push(h, msg)
		return nil, nil
	}

	ready := []*Message{msg}
	exp++
	for h.Len() > 0 && (*h)[0].Clock == exp {
		ready = append(ready, heap.Pop(h).(*Message))
		exp++
	}
	r.expected[msg.From] = exp

	return ready, nil
}

// Buffered returns the number of messages waiting for an earlier clock.
func (r *Reorderer) Buffered() int {
	n := 0
	for _, h := range r.pending {
		n += h.Len()
	}
	return n
}

// clockHeap is a min-heap of messages keyed by clock.
type clockHeap []*Message

func (h clockHeap) Len() int           { return len(h) }
func (h clockHeap) Less(i, j int) bool { return h[i].Clock < h[j].Clock }
func (h clockHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *clockHeap) Push(x interface{}) {
	*h = append(*h, x.(*Message))
}

func (h *clockHeap) Pop() interface{} {
	old := *h
	n := len(old)
	m := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return m
}

func (h clockHeap) contains(clock uint64) bool {
	for _, m := range h {
		if m.Clock == clock {
			return true
		}
	}
	return false
}
