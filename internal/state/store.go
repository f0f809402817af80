// Package state holds the client's authoritative view of the arena: every
// known snake and food pellet, keyed by stable server-assigned ids.
package state

import (
	"sync"

	"snakepit/internal/camera"
	"snakepit/internal/geom"
	"snakepit/internal/protocol"
)

// Snake is one snake as the store knows it. Segments are ordered head
// first; len(Segments) never exceeds Length.
type Snake struct {
	ID       string
	Name     string
	Color    string
	Segments []geom.Point
	Length   int
	Score    int
	Alive    bool
}

// Head returns the lead segment, or the zero point for an empty snake.
func (s Snake) Head() geom.Point {
	if len(s.Segments) == 0 {
		return geom.Point{}
	}
	return s.Segments[0]
}

// Food is one pellet. Inactive pellets are kept out of rendering and
// collision but retained until the server replaces them.
type Food struct {
	ID     string
	Pos    geom.Point
	Color  string
	Active bool
}

// Store is the single shared entity collection. All mutation happens on one
// goroutine (the client loop applying ticks and inbound messages); the
// mutex exists so render snapshots taken from another goroutine stay
// consistent.
type Store struct {
	mu     sync.Mutex
	snakes map[string]Snake
	foods  map[string]Food
}

func NewStore() *Store {
	return &Store{
		snakes: make(map[string]Snake),
		foods:  make(map[string]Food),
	}
}

// UpsertRemote records the latest server state for a snake, inserting it if
// the id is unknown. An update for a never-seen id is an implicit join.
func (st *Store) UpsertRemote(s Snake) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snakes[s.ID] = s
}

// ReplaceSnakes swaps the whole snake collection, as on an init_location
// snapshot after a reconnect.
func (st *Store) ReplaceSnakes(snakes []Snake) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snakes = make(map[string]Snake, len(snakes))
	for _, s := range snakes {
		st.snakes[s.ID] = s
	}
}

// RemoveSnake drops a snake entirely. Unknown ids are a no-op.
func (st *Store) RemoveSnake(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.snakes, id)
}

// MarkSnakeDead flips a snake's alive flag without discarding it. Unknown
// or already-dead ids are benign no-ops.
func (st *Store) MarkSnakeDead(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.snakes[id]
	if !ok {
		return
	}
	s.Alive = false
	st.snakes[id] = s
}

// SetFoods replaces the whole food collection, as on an init_location
// snapshot.
func (st *Store) SetFoods(foods []Food) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.foods = make(map[string]Food, len(foods))
	for _, f := range foods {
		st.foods[f.ID] = f
	}
}

// MergeFoods appends or overwrites pellets from a new_foods delta.
func (st *Store) MergeFoods(foods []Food) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, f := range foods {
		st.foods[f.ID] = f
	}
}

// SetFoodActive toggles one pellet. Unknown ids are ignored: a deactivation
// can race a snapshot that no longer carries the pellet. Repeating the same
// toggle is idempotent.
func (st *Store) SetFoodActive(id string, active bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	f, ok := st.foods[id]
	if !ok {
		return
	}
	f.Active = active
	st.foods[id] = f
}

// Snake returns a copy of one snake.
func (st *Store) Snake(id string) (Snake, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.snakes[id]
	return s, ok
}

// SnakesExcept returns copies of every snake but the given id, in no
// particular order.
func (st *Store) SnakesExcept(id string) []Snake {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Snake, 0, len(st.snakes))
	for sid, s := range st.snakes {
		if sid == id {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ActiveFoods returns copies of every active pellet.
func (st *Store) ActiveFoods() []Food {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Food, 0, len(st.foods))
	for _, f := range st.foods {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}

// VisibleFoods returns the active pellets inside the camera's padded
// viewport, for the renderer.
func (st *Store) VisibleFoods(cam camera.Camera, pad float64) []Food {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Food, 0, len(st.foods))
	for _, f := range st.foods {
		if f.Active && cam.Visible(f.Pos, pad) {
			out = append(out, f)
		}
	}
	return out
}

// FoodCount returns total and active pellet counts.
func (st *Store) FoodCount() (total, active int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, f := range st.foods {
		if f.Active {
			active++
		}
	}
	return len(st.foods), active
}

// SnakeFromRecord converts a wire record into store form.
func SnakeFromRecord(r protocol.SnakeRecord) Snake {
	segments := make([]geom.Point, len(r.Segments))
	copy(segments, r.Segments)
	return Snake{
		ID:       r.ID,
		Name:     r.Username,
		Color:    r.Color,
		Segments: segments,
		Length:   r.Length,
		Score:    r.Score,
		Alive:    r.Alive,
	}
}

// FoodFromRecord converts a wire record into store form.
func FoodFromRecord(r protocol.FoodRecord) Food {
	return Food{
		ID:     r.ID,
		Pos:    geom.Point{X: r.X, Y: r.Y},
		Color:  r.Color,
		Active: r.Active,
	}
}

// FoodsFromRecords converts a wire batch.
func FoodsFromRecords(rs []protocol.FoodRecord) []Food {
	out := make([]Food, len(rs))
	for i, r := range rs {
		out[i] = FoodFromRecord(r)
	}
	return out
}
