// Package client runs the player side of the arena: optimistic local
// simulation, the websocket session with reconnect backoff, and
// reconciliation of server broadcasts into the shared entity store.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"snakepit/internal/camera"
	"snakepit/internal/geom"
	"snakepit/internal/protocol"
	"snakepit/internal/session"
	"snakepit/internal/sim"
	"snakepit/internal/state"
	"snakepit/internal/world"
	"snakepit/logging"
)

// ErrRetriesExhausted means the reconnect budget ran out; the session is
// over and the UI layer decides what happens next.
var ErrRetriesExhausted = errors.New("client: reconnect attempts exhausted")

// Config tunes the client loop.
type Config struct {
	URL             string
	World           world.World
	Sim             sim.Config
	TickRate        int
	SendInterval    time.Duration
	SendMinDistance float64
	RespawnDelay    time.Duration
	Reconnect       ReconnectPolicy
}

func DefaultConfig(url string) Config {
	return Config{
		URL: url,
		World: world.World{
			Width:  1200,
			Height: 800,
			Border: 20,
		},
		Sim: sim.Config{
			Radius:            15,
			Speed:             1.5,
			CollisionDistance: 30,
			GrowthEvery:       3,
			InitialLength:     1,
			Viewport:          geom.Point{X: 1280, Y: 720},
		},
		TickRate:        60,
		SendInterval:    100 * time.Millisecond,
		SendMinDistance: 4,
		RespawnDelay:    3 * time.Second,
		Reconnect:       DefaultReconnectPolicy(),
	}
}

// RenderState is the consistent per-tick snapshot handed to a renderer.
type RenderState struct {
	Camera      camera.Camera
	Segments    []geom.Point
	Color       string
	Alive       bool
	Score       int
	Length      int
	Foods       []state.Food
	Snakes      []state.Snake
	Leaderboard []protocol.LeaderboardEntry
}

// Client drives one game session. All game state is mutated by the Run
// goroutine only; inbound frames and pointer input are funneled onto it
// through channels.
type Client struct {
	cfg      Config
	identity Identity
	pub      logging.Publisher

	store    *state.Store
	sess     *session.Session
	engine   *sim.Engine
	throttle *sendThrottle

	id    string
	color string
	rng   *rand.Rand

	conn  *websocket.Conn
	wmu   sync.Mutex
	state ConnState

	pointer chan geom.Point
	stop    chan struct{}
	done    chan struct{}

	renderMu    sync.Mutex
	render      RenderState
	leaderboard []protocol.LeaderboardEntry
}

// New builds a client for a resolved identity. Requiring Identity here
// makes connecting before the identity collaborator answered impossible.
func New(cfg Config, identity Identity, pub logging.Publisher) *Client {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Client{
		cfg:      cfg,
		identity: identity,
		pub:      pub,
		store:    state.NewStore(),
		sess:     session.New(cfg.RespawnDelay, time.Now()),
		throttle: newSendThrottle(cfg.SendInterval, cfg.SendMinDistance),
		color:    randomColor(rng),
		rng:      rng,
		pointer:  make(chan geom.Point, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until Stop is called, the server closes cleanly, or the
// reconnect budget runs out.
func (c *Client) Run() error {
	defer close(c.done)

	attempt := 0
	for {
		c.setState(StateConnecting)
		conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, nil)
		if err != nil {
			attempt++
			if c.cfg.Reconnect.Exhausted(attempt) {
				c.setState(StateDisconnected)
				return fmt.Errorf("%w: dial: %v", ErrRetriesExhausted, err)
			}
			if !c.sleep(c.cfg.Reconnect.Delay(attempt)) {
				return nil
			}
			continue
		}

		c.conn = conn
		c.setState(StateConnected)
		attempt = 0
		c.publish("connected", nil)

		clean := c.runSession(conn)
		c.conn = nil
		c.setState(StateDisconnected)
		if clean {
			return nil
		}

		attempt++
		if c.cfg.Reconnect.Exhausted(attempt) {
			return ErrRetriesExhausted
		}
		c.publish("reconnecting", map[string]any{"attempt": attempt})
		if !c.sleep(c.cfg.Reconnect.Delay(attempt)) {
			return nil
		}
	}
}

// runSession pumps one connection until it drops. Returns true when the
// close was clean (or locally requested), meaning no reconnect follows.
func (c *Client) runSession(conn *websocket.Conn) bool {
	inbound := make(chan []byte, 64)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case inbound <- payload:
			case <-c.stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
			c.wmu.Lock()
			conn.WriteMessage(websocket.CloseMessage, msg)
			c.wmu.Unlock()
			conn.Close()
			return true
		case err := <-readErr:
			conn.Close()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.publish("closed_clean", nil)
				return true
			}
			c.publish("closed_unclean", map[string]any{"error": err.Error()})
			return false
		case payload := <-inbound:
			c.handleMessage(payload)
		case now := <-ticker.C:
			c.tick(now)
		}
	}
}

// Stop ends the session cleanly. Safe to call more than once.
func (c *Client) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

// PointTo steers toward a viewport position, typically pointer motion.
// Latest wins; intermediate positions are dropped.
func (c *Client) PointTo(viewportPos geom.Point) {
	select {
	case <-c.pointer:
	default:
	}
	c.pointer <- viewportPos
}

// Stats freezes the session counters for the stats collaborator.
func (c *Client) Stats() session.Stats {
	return c.sess.Snapshot(time.Now())
}

// Render returns the latest consistent snapshot for drawing.
func (c *Client) Render() RenderState {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	return c.render
}

// State reports the connection state machine's position.
func (c *Client) State() ConnState {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	return c.state
}

func (c *Client) setState(s ConnState) {
	c.renderMu.Lock()
	c.state = s
	c.renderMu.Unlock()
}

// tick advances the local snake one step and ships a throttled move.
func (c *Client) tick(now time.Time) {
	if c.engine == nil {
		return
	}

	select {
	case p := <-c.pointer:
		c.engine.SetDirection(c.engine.Camera().ViewToWorld(p))
	default:
	}

	if c.sess.RespawnDue(now) {
		c.color = randomColor(c.rng)
		c.engine.Respawn(now, c.color)
		c.throttle.Reset()
		head := c.engine.Head()
		c.send(protocol.RespawnMsg{
			Type:       protocol.TypeRespawn,
			SnakeX:     head.X,
			SnakeY:     head.Y,
			SnakeColor: c.color,
			Username:   c.identity.Username,
		})
		c.publish("respawned", nil)
	}

	c.engine.Tick(now)

	if c.sess.Alive() {
		head := c.engine.Head()
		if c.throttle.ShouldSend(now, head) {
			c.send(protocol.MoveMsg{
				Type:       protocol.TypeMove,
				SnakeX:     head.X,
				SnakeY:     head.Y,
				SnakeColor: c.color,
				Username:   c.identity.Username,
				Segments:   c.engine.Segments(),
				Length:     c.engine.Length(),
				Score:      c.engine.Score(),
				Alive:      true,
			})
			c.throttle.Sent(now, head)
		}
	}

	c.publishRender()
}

func (c *Client) publishRender() {
	cam := c.engine.Camera()
	snap := RenderState{
		Camera:      cam,
		Segments:    c.engine.Segments(),
		Color:       c.color,
		Alive:       c.sess.Alive(),
		Score:       c.engine.Score(),
		Length:      c.engine.Length(),
		Foods:       c.store.VisibleFoods(cam, c.cfg.Sim.Radius*2),
		Snakes:      c.store.SnakesExcept(c.id),
		Leaderboard: c.leaderboard,
	}
	c.renderMu.Lock()
	c.render = snap
	c.renderMu.Unlock()
}

// FoodEaten implements sim.Events: tell the server about an optimistic
// pickup so it can arbitrate and replace the pellet.
func (c *Client) FoodEaten(foodID string) {
	c.send(protocol.EatFoodMsg{Type: protocol.TypeEatFood, FoodID: foodID})
}

// Died implements sim.Events: report the local death exactly once.
func (c *Client) Died(segments []geom.Point, color string, killerID string) {
	c.send(protocol.PlayerDiedMsg{
		Type:     protocol.TypePlayerDied,
		KillerID: killerID,
		Segments: segments,
		Color:    color,
	})
	c.publish("died", map[string]any{"killer": killerID})
}

func (c *Client) send(msg any) {
	conn := c.conn
	if conn == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.wmu.Lock()
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.wmu.Unlock()
	if err != nil {
		c.publish("send_failed", map[string]any{"error": err.Error()})
	}
}

// sleep waits out a backoff delay unless Stop interrupts it.
func (c *Client) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.stop:
		return false
	case <-timer.C:
		return true
	}
}

func (c *Client) publish(event string, payload map[string]any) {
	c.pub.Publish(context.Background(), logging.Event{
		Type:     logging.EventType(event),
		Actor:    logging.EntityRef{ID: c.id, Kind: logging.EntityKindSnake},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

func randomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%06X", rng.Intn(0x1000000))
}
