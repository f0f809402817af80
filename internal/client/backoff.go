package client

import (
	"math"
	"time"
)

// ConnState is the connection state machine:
// Disconnected -> Connecting -> Connected -> Disconnected.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ReconnectPolicy bounds how the client retries after unclean closes.
// The attempt counter resets on every clean connection.
type ReconnectPolicy struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{BaseDelay: time.Second, MaxAttempts: 5}
}

// Delay returns the wait before retry number attempt (1-based):
// base × 1.5^(attempt-1).
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	scaled := float64(p.BaseDelay) * math.Pow(1.5, float64(attempt-1))
	return time.Duration(scaled)
}

// Exhausted reports whether the attempt number exceeds the retry budget.
func (p ReconnectPolicy) Exhausted(attempt int) bool {
	return attempt > p.MaxAttempts
}
