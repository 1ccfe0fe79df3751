package node

import (
	"testing"
	"time"
)

func TestControlTimerTicksOnce(t *testing.T) {
	fire := make(chan time.Time, 1)
	timer := NewControlTimer(func(time.Duration) <-chan time.Time { return fire })
	defer timer.Shutdown()

	done := make(chan struct{})
	go func() {
		timer.Run(time.Second)
		close(done)
	}()

	fire <- time.Now()

	select {
	case <-timer.tickCh:
	case <-time.After(time.Second):
		t.Fatal("timer should tick when it fires")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return after the tick")
	}
}

func TestControlTimerStopDisarms(t *testing.T) {
	fire := make(chan time.Time, 1)
	timer := NewControlTimer(func(time.Duration) <-chan time.Time { return fire })
	defer timer.Shutdown()

	done := make(chan struct{})
	go func() {
		timer.Run(time.Second)
		close(done)
	}()

	timer.Stop()
	timer.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return once the timer is stopped")
	}

	fire <- time.Now()
	select {
	case <-timer.tickCh:
		t.Fatal("a stopped timer should not tick")
	case <-time.After(50 * time.Millisecond):
	}

	if !timer.Stopped() {
		t.Fatal("Stopped should report a stopped timer")
	}
}

func TestControlTimerStopBeforeRun(t *testing.T) {
	timer := NewControlTimer(func(time.Duration) <-chan time.Time { return nil })
	defer timer.Shutdown()

	timer.Stop()

	done := make(chan struct{})
	go func() {
		timer.Run(time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return at once on a stopped timer")
	}
}
