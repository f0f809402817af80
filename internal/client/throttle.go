package client

import (
	"time"

	"snakepit/internal/geom"
)

// sendThrottle gates outbound move messages on both elapsed time and
// travelled distance since the last send, bounding bandwidth regardless of
// tick rate.
type sendThrottle struct {
	minInterval time.Duration
	minDistance float64

	lastSent    time.Time
	lastEmitted geom.Point
	sentAny     bool
}

func newSendThrottle(minInterval time.Duration, minDistance float64) *sendThrottle {
	return &sendThrottle{minInterval: minInterval, minDistance: minDistance}
}

// ShouldSend reports whether a move for head may go out now. The first
// call always passes.
func (t *sendThrottle) ShouldSend(now time.Time, head geom.Point) bool {
	if !t.sentAny {
		return true
	}
	if now.Sub(t.lastSent) < t.minInterval {
		return false
	}
	return geom.Dist(head, t.lastEmitted) >= t.minDistance
}

// Sent records a completed send.
func (t *sendThrottle) Sent(now time.Time, head geom.Point) {
	t.lastSent = now
	t.lastEmitted = head
	t.sentAny = true
}

// Reset clears history, e.g. after a reconnect or respawn.
func (t *sendThrottle) Reset() {
	t.sentAny = false
}
