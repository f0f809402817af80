// Package session tracks the local player's life cycle and the counters
// handed to the stats collaborator when the session ends.
package session

import "time"

// Phase is the life state of the local snake.
type Phase int

const (
	PhaseAlive Phase = iota
	PhaseDead
)

// Stats is the terminal summary posted to the external stats service.
type Stats struct {
	Score               int `json:"score"`
	Length              int `json:"length"`
	SurvivalTimeSeconds int `json:"survivalTimeSeconds"`
	FoodEaten           int `json:"foodEaten"`
	Kills               int `json:"kills"`
}

// Session is the alive/dead state machine. It is driven from the client
// loop goroutine only; the respawn moment is a deadline checked per tick
// rather than a timer callback, so teardown has nothing to cancel here.
type Session struct {
	phase        Phase
	respawnDelay time.Duration
	diedAt       time.Time
	aliveSince   time.Time
	survived     time.Duration

	score     int
	length    int
	foodEaten int
	kills     int
}

func New(respawnDelay time.Duration, now time.Time) *Session {
	return &Session{
		phase:        PhaseAlive,
		respawnDelay: respawnDelay,
		aliveSince:   now,
	}
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Alive() bool { return s.phase == PhaseAlive }

// Die moves Alive -> Dead and reports whether this call performed the
// transition. Dying while already dead is a no-op that neither re-arms the
// respawn deadline nor warrants another outbound death report.
func (s *Session) Die(now time.Time) bool {
	if s.phase == PhaseDead {
		return false
	}
	s.phase = PhaseDead
	s.diedAt = now
	s.survived += now.Sub(s.aliveSince)
	return true
}

// RespawnDue reports whether the fixed post-death delay has elapsed. The
// local deadline alone decides the visual respawn moment; a server message
// never shortens it.
func (s *Session) RespawnDue(now time.Time) bool {
	return s.phase == PhaseDead && now.Sub(s.diedAt) >= s.respawnDelay
}

// Respawn moves Dead -> Alive and resets the per-life counters. Score and
// length restart from their initial values on the next life.
func (s *Session) Respawn(now time.Time) {
	if s.phase != PhaseDead {
		return
	}
	s.phase = PhaseAlive
	s.aliveSince = now
	s.score = 0
}

func (s *Session) RecordFood() { s.foodEaten++ }

func (s *Session) RecordKill() { s.kills++ }

func (s *Session) SetScore(score int) { s.score = score }

func (s *Session) SetLength(length int) { s.length = length }

func (s *Session) Score() int { return s.score }

// Snapshot freezes the stats for the external collaborator. Survival time
// counts time spent alive, including the current life if still running.
func (s *Session) Snapshot(now time.Time) Stats {
	survived := s.survived
	if s.phase == PhaseAlive {
		survived += now.Sub(s.aliveSince)
	}
	return Stats{
		Score:               s.score,
		Length:              s.length,
		SurvivalTimeSeconds: int(survived.Seconds()),
		FoodEaten:           s.foodEaten,
		Kills:               s.kills,
	}
}
