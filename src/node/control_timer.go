package node

import (
	"math/rand"
	"sync"
	"time"
)

type timerFactory func(time.Duration) <-chan time.Time

// ControlTimer signals the node once, after a delay, that it may wake up
// spontaneously.
type ControlTimer struct {
	timerFactory timerFactory
	tickCh       chan struct{} //sends a signal to listening process
	stopCh       chan struct{} //closed to disarm the timer
	stopOnce     sync.Once
	shutdownCh   chan struct{} //receives instruction to exit Run loop
}

// NewControlTimer ...
func NewControlTimer(timerFactory timerFactory) *ControlTimer {
	return &ControlTimer{
		timerFactory: timerFactory,
		tickCh:       make(chan struct{}),
		stopCh:       make(chan struct{}),
		shutdownCh:   make(chan struct{}),
	}
}

// NewRandomControlTimer returns a ControlTimer that fires after a random
// duration in [0, max). A zero max fires immediately.
func NewRandomControlTimer() *ControlTimer {

	randomTimeout := func(max time.Duration) <-chan time.Time {
		if max <= 0 {
			return time.After(0)
		}
		return time.After(time.Duration(rand.Int63n(int64(max))))
	}
	return NewControlTimer(randomTimeout)
}

// Run arms the timer and delivers a single tick, unless the timer is stopped
// or shut down first.
func (c *ControlTimer) Run(max time.Duration) {
	select {
	case <-c.timerFactory(max):
		select {
		case c.tickCh <- struct{}{}:
		case <-c.stopCh:
		case <-c.shutdownCh:
		}
	case <-c.stopCh:
	case <-c.shutdownCh:
	}
}

// Stop disarms the timer. It never blocks and may be called several times,
// before, during or after Run.
func (c *ControlTimer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// Stopped reports whether Stop was called.
func (c *ControlTimer) Stopped() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

// Shutdown ...
func (c *ControlTimer) Shutdown() {
	close(c.shutdownCh)
}
