package server

import (
	"sort"

	"snakepit/internal/protocol"
)

// leaderboardLocked ranks every joined snake by score, best first, capped
// at the configured board size. Caller holds the hub mutex.
func (h *Hub) leaderboardLocked() []protocol.LeaderboardEntry {
	entries := make([]protocol.LeaderboardEntry, 0, len(h.snakes))
	for id, s := range h.snakes {
		if !s.joined {
			continue
		}
		name := s.Username
		if name == "" {
			name = "Anonymous"
		}
		entries = append(entries, protocol.LeaderboardEntry{
			ID:    id,
			Name:  name,
			Score: s.Score,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > h.cfg.LeaderboardSize {
		entries = entries[:h.cfg.LeaderboardSize]
	}
	return entries
}
