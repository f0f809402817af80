package server

import (
	"fmt"

	"github.com/google/uuid"

	"snakepit/internal/protocol"
)

// spawnFoodsLocked creates n active pellets at random positions inside the
// spawn margin. Caller holds the hub mutex.
func (h *Hub) spawnFoodsLocked(n int) []protocol.FoodRecord {
	if n <= 0 {
		return nil
	}
	fresh := make([]protocol.FoodRecord, 0, n)
	for i := 0; i < n; i++ {
		food := protocol.FoodRecord{
			ID:     uuid.NewString(),
			X:      h.randomCoordLocked(h.cfg.WorldWidth),
			Y:      h.randomCoordLocked(h.cfg.WorldHeight),
			Color:  h.randomColorLocked(),
			Active: true,
		}
		h.foods[food.ID] = food
		fresh = append(fresh, food)
	}
	return fresh
}

// pruneInactiveFoodsLocked drops up to n eaten pellets. Ids are never
// reactivated at a new position; replacements always carry fresh ids.
func (h *Hub) pruneInactiveFoodsLocked(n int) {
	for id, f := range h.foods {
		if n <= 0 {
			return
		}
		if !f.Active {
			delete(h.foods, id)
			n--
		}
	}
}

func (h *Hub) activeFoodsLocked() []protocol.FoodRecord {
	out := make([]protocol.FoodRecord, 0, len(h.foods))
	for _, f := range h.foods {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}

func (h *Hub) liveSnakesLocked(excludeID string) []protocol.SnakeRecord {
	out := make([]protocol.SnakeRecord, 0, len(h.snakes))
	for id, s := range h.snakes {
		if id == excludeID || !s.joined {
			continue
		}
		out = append(out, s.SnakeRecord)
	}
	return out
}

func (h *Hub) randomCoordLocked(size float64) float64 {
	margin := h.cfg.FoodSpawnMargin
	return margin + h.rng.Float64()*(size-2*margin)
}

func (h *Hub) randomColorLocked() string {
	return fmt.Sprintf("#%06X", h.rng.Intn(0x1000000))
}
