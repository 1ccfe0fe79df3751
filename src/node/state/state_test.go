package state

import (
	"sync/atomic"
	"testing"
)

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Sleeping:  "Sleeping",
		Find:      "Find",
		Found:     "Found",
		Halted:    "Halted",
		State(42): "Unknown",
	}
	for s, exp := range cases {
		if s.String() != exp {
			t.Fatalf("State(%d).String() should be %s, not %s", s, exp, s.String())
		}
	}
}

func TestManager(t *testing.T) {
	var m Manager

	if m.GetState() != Sleeping {
		t.Fatalf("initial state should be Sleeping, not %v", m.GetState())
	}

	m.SetState(Found)
	if m.GetState() != Found {
		t.Fatalf("state should be Found, not %v", m.GetState())
	}

	var count int32
	for i := 0; i < 50; i++ {
		m.GoFunc(func() { atomic.AddInt32(&count, 1) })
	}
	m.WaitRoutines()

	if count != 50 {
		t.Fatalf("all 50 routines should have run, got %d", count)
	}
	if m.Routines() != 0 {
		t.Fatalf("no routine should be running, got %d", m.Routines())
	}
}
