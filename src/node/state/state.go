package state

import (
	"sync"
	"sync/atomic"
)

// State captures the GHS state of a node: Sleeping, Find, Found, or Halted
type State uint32

const (
	// Sleeping is the initial state of a node. A sleeping node has not joined
	// any fragment yet. It wakes up spontaneously or upon receiving its first
	// message.
	Sleeping State = iota

	// Find is the state in which a node participates in the search for the
	// minimum outgoing edge of its fragment.
	Find

	// Found is the state in which a node has reported its part of the search
	// to its fragment core.
	Found

	// Halted is the terminal state. The fragment of the node spans the whole
	// graph and no outgoing edge remains. A halted node refuses further
	// fragment-growth messages.
	Halted
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Sleeping:
		return "Sleeping"
	case Find:
		return "Find"
	case Found:
		return "Found"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// Manager wraps a State with get and set methods that are safe to call from
// the inspection routines while the node's event loop updates it. It also
// tracks the goroutines launched by the node so they can be waited for on
// shutdown.
type Manager struct {
	state   State
	wg      sync.WaitGroup
	wgCount int32
}

// GetState returns the current state.
func (b *Manager) GetState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

// SetState sets the state.
func (b *Manager) SetState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}

// GoFunc launches a goroutine for a given function and increments the
// waitgroup. Unlike a gossip routine, a send cannot be dropped, so there is no
// limit on the number of routines.
func (b *Manager) GoFunc(f func()) {
	b.wg.Add(1)
	atomic.AddInt32(&b.wgCount, 1)
	go func() {
		defer b.wg.Done()
		defer atomic.AddInt32(&b.wgCount, -1)
		f()
	}()
}

// Routines returns the number of goroutines currently running.
func (b *Manager) Routines() int {
	return int(atomic.LoadInt32(&b.wgCount))
}

// WaitRoutines waits for all the goroutines in the waitgroup.
func (b *Manager) WaitRoutines() {
	b.wg.Wait()
}
