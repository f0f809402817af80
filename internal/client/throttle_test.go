package client

import (
	"testing"
	"time"

	"snakepit/internal/geom"
)

func TestThrottleFirstSendAlwaysPasses(t *testing.T) {
	now := time.Now()
	th := newSendThrottle(100*time.Millisecond, 4)
	if !th.ShouldSend(now, geom.Point{}) {
		t.Fatal("first send gated")
	}
}

func TestThrottleRequiresBothGates(t *testing.T) {
	now := time.Now()
	th := newSendThrottle(100*time.Millisecond, 4)
	th.Sent(now, geom.Point{X: 100, Y: 100})

	// Far enough but too soon.
	if th.ShouldSend(now.Add(50*time.Millisecond), geom.Point{X: 200, Y: 100}) {
		t.Fatal("sent before the interval elapsed")
	}
	// Late enough but too close.
	if th.ShouldSend(now.Add(150*time.Millisecond), geom.Point{X: 101, Y: 100}) {
		t.Fatal("sent without covering the distance")
	}
	// Both gates open.
	if !th.ShouldSend(now.Add(150*time.Millisecond), geom.Point{X: 110, Y: 100}) {
		t.Fatal("gated with both conditions met")
	}
}

func TestThrottleBoundsMessageRate(t *testing.T) {
	const interval = 100 * time.Millisecond
	start := time.Now()
	th := newSendThrottle(interval, 4)

	// Simulate 10 seconds of 60Hz ticks with the head moving 1.5 units per
	// tick, and count how many moves get through.
	head := geom.Point{X: 100, Y: 100}
	sent := 0
	for i := 0; i < 600; i++ {
		now := start.Add(time.Duration(i) * time.Second / 60)
		head.X += 1.5
		if th.ShouldSend(now, head) {
			th.Sent(now, head)
			sent++
		}
	}

	// At most one send per interval, and tick granularity stretches the gap
	// to the next tick after each deadline, so the count lands just under
	// the ideal 100.
	if sent > 101 {
		t.Fatalf("sent %d moves in 10s, throttle failed to bound the rate", sent)
	}
	if sent < 80 {
		t.Fatalf("sent %d moves in 10s, throttle over-suppressed", sent)
	}
}

func TestThrottleResetAllowsImmediateSend(t *testing.T) {
	now := time.Now()
	th := newSendThrottle(100*time.Millisecond, 4)
	th.Sent(now, geom.Point{X: 100, Y: 100})
	th.Reset()
	if !th.ShouldSend(now, geom.Point{X: 100, Y: 100}) {
		t.Fatal("gated after reset")
	}
}
