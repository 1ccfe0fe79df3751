package net

import (
	"math/rand"
	"sync"
	"time"
)

// Delay produces the latency applied to each message by an InmemTransport.
type Delay interface {
	Next() time.Duration
}

// NoDelay delivers messages immediately.
type NoDelay struct{}

// Next implements the Delay interface.
func (NoDelay) Next() time.Duration { return 0 }

// FixedDelay delays every message by the same duration.
type FixedDelay time.Duration

// Next implements the Delay interface.
func (d FixedDelay) Next() time.Duration { return time.Duration(d) }

// RandomDelay delays each message by a uniformly distributed duration in
// [0, max). It can be shared between transports.
type RandomDelay struct {
	sync.Mutex
	rnd *rand.Rand
	max time.Duration
}

// NewRandomDelay creates a RandomDelay seeded with seed.
func NewRandomDelay(max time.Duration, seed int64) *RandomDelay {
	return &RandomDelay{
		rnd: rand.New(rand.NewSource(seed)),
		max: max,
	}
}

// Next implements the Delay interface.
func (d *RandomDelay) Next() time.Duration {
	if d.max <= 0 {
		return 0
	}
	d.Lock()
	defer d.Unlock()
	return time.Duration(d.rnd.Int63n(int64(d.max)))
}
