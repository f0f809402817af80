// Package sim advances the local snake one tick at a time: movement,
// border bounce, segment spacing, growth, and collision checks against the
// latest remote snapshot.
package sim

import (
	"time"

	"snakepit/internal/camera"
	"snakepit/internal/geom"
	"snakepit/internal/session"
	"snakepit/internal/state"
	"snakepit/internal/world"
)

// Config carries the movement and collision tuning for the local snake.
type Config struct {
	Radius            float64
	Speed             float64
	CollisionDistance float64
	GrowthEvery       int
	InitialLength     int
	Viewport          geom.Point
}

// SegmentSpacing is the minimum travel distance before a new head segment
// is inserted. Decouples visual segment density from tick granularity.
func (c Config) SegmentSpacing() float64 { return c.Radius * 1.6 }

// PickupDistance is the head-to-food distance that counts as eating.
func (c Config) PickupDistance() float64 { return c.Radius * 1.6 }

// Events receives the engine's protocol-relevant outcomes. The client wires
// these to outbound messages.
type Events interface {
	FoodEaten(foodID string)
	Died(segments []geom.Point, color string, killerID string)
}

// Engine owns the local snake. Everything here runs on the client loop
// goroutine; remote snakes and foods are read from the shared store and may
// be up to one tick stale, which is tolerated.
type Engine struct {
	cfg    Config
	world  world.World
	store  *state.Store
	sess   *session.Session
	events Events

	id    string
	name  string
	color string

	dir          geom.Point
	segments     []geom.Point
	lastInserted geom.Point
	length       int
	score        int
	eaten        int

	cam camera.Camera
}

func NewEngine(cfg Config, w world.World, store *state.Store, sess *session.Session, events Events, id, name, color string) *Engine {
	e := &Engine{
		cfg:    cfg,
		world:  w,
		store:  store,
		sess:   sess,
		events: events,
		id:     id,
		name:   name,
		color:  color,
	}
	e.spawn()
	return e
}

func (e *Engine) spawn() {
	center := geom.Point{X: e.world.Width / 2, Y: e.world.Height / 2}
	e.segments = []geom.Point{center}
	e.lastInserted = center
	e.dir = geom.Point{X: 1, Y: 0}
	e.length = e.cfg.InitialLength
	e.score = 0
	e.eaten = 0
	e.sess.SetScore(0)
	e.sess.SetLength(e.length)
	e.cam = camera.Follow(center, e.cfg.Viewport, e.world)
}

// Respawn resets the snake at world center with a fresh color after the
// respawn delay elapsed. The caller re-announces via the protocol.
func (e *Engine) Respawn(now time.Time, color string) {
	e.sess.Respawn(now)
	e.color = color
	e.spawn()
}

// SetDirection points the snake at a world-space target, typically the
// pointer position mapped through the camera. Ignored while dead.
func (e *Engine) SetDirection(target geom.Point) {
	if !e.sess.Alive() {
		return
	}
	d := geom.Normalize(target.Sub(e.Head()))
	if d.X == 0 && d.Y == 0 {
		return
	}
	e.dir = d
}

func (e *Engine) Head() geom.Point {
	if len(e.segments) == 0 {
		return geom.Point{}
	}
	return e.segments[0]
}

func (e *Engine) ID() string { return e.id }

func (e *Engine) Name() string { return e.name }

func (e *Engine) Color() string { return e.color }

func (e *Engine) Direction() geom.Point { return e.dir }

func (e *Engine) Score() int { return e.score }

func (e *Engine) Length() int { return e.length }

func (e *Engine) Camera() camera.Camera { return e.cam }

// Segments returns a copy of the body, head first.
func (e *Engine) Segments() []geom.Point {
	out := make([]geom.Point, len(e.segments))
	copy(out, e.segments)
	return out
}

// Tick advances the local snake one step. The fixed order is movement,
// border bounce, segment insertion, tail trim, collision checks, camera.
// A fatal collision ends the tick early.
func (e *Engine) Tick(now time.Time) {
	if !e.sess.Alive() {
		return
	}

	newHead := e.Head().Add(e.dir.Scale(e.cfg.Speed))
	if !e.world.WithinBorder(newHead) {
		newHead, e.dir = e.world.Bounce(newHead, e.dir, e.world.Border)
	}

	if geom.Dist(newHead, e.lastInserted) >= e.cfg.SegmentSpacing() {
		e.segments = append([]geom.Point{newHead}, e.segments...)
		e.lastInserted = newHead
	} else {
		e.segments[0] = newHead
	}
	for len(e.segments) > e.length {
		e.segments = e.segments[:len(e.segments)-1]
	}

	if killer, fatal := e.checkSnakeCollisions(newHead); fatal {
		e.die(now, killer)
		return
	}
	e.checkFoodPickups(newHead)

	e.cam = camera.Follow(newHead, e.cfg.Viewport, e.world)
}

// checkSnakeCollisions tests the head against the latest remote snapshot.
// Head-to-head is checked before head-to-body; the first hit wins.
func (e *Engine) checkSnakeCollisions(head geom.Point) (string, bool) {
	remotes := e.store.SnakesExcept(e.id)
	for _, other := range remotes {
		if !other.Alive || len(other.Segments) == 0 {
			continue
		}
		if geom.Dist(head, other.Head()) < e.cfg.CollisionDistance {
			return other.ID, true
		}
	}
	bodyDistance := e.cfg.CollisionDistance * 0.8
	for _, other := range remotes {
		if !other.Alive {
			continue
		}
		for i := 1; i < len(other.Segments); i++ {
			if geom.Dist(head, other.Segments[i]) < bodyDistance {
				return other.ID, true
			}
		}
	}
	return "", false
}

// checkFoodPickups eats every active pellet within pickup range,
// deactivating it locally before the server confirms.
func (e *Engine) checkFoodPickups(head geom.Point) {
	for _, f := range e.store.ActiveFoods() {
		if geom.Dist(head, f.Pos) >= e.cfg.PickupDistance() {
			continue
		}
		e.store.SetFoodActive(f.ID, false)
		e.score++
		e.eaten++
		if e.cfg.GrowthEvery > 0 && e.eaten%e.cfg.GrowthEvery == 0 {
			e.length++
		}
		e.sess.RecordFood()
		e.sess.SetScore(e.score)
		e.sess.SetLength(e.length)
		e.events.FoodEaten(f.ID)
	}
}

// die runs the local death transition once. Repeat calls while dead are
// absorbed by the session.
func (e *Engine) die(now time.Time, killerID string) {
	if !e.sess.Die(now) {
		return
	}
	dropped := e.Segments()
	e.segments = nil
	e.events.Died(dropped, e.color, killerID)
}

// ForceDeath applies a server-adjudicated death for the local id. Used when
// the server's player_died echo arrives while the client still believes it
// is alive, so the two never permanently disagree.
func (e *Engine) ForceDeath(now time.Time) {
	e.die(now, "")
}
