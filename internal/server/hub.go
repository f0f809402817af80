package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snakepit/internal/journal"
	"snakepit/internal/protocol"
	"snakepit/logging"
)

const writeWait = 10 * time.Second

// Hub owns all live snakes, subscribers, and the food field. One mutex
// serializes every mutation; the tick loop and the per-connection read
// goroutines both go through it.
type Hub struct {
	mu          sync.Mutex
	cfg         Config
	snakes      map[string]*snakeState
	subscribers map[string]*subscriber
	foods       map[string]protocol.FoodRecord
	respawns    []time.Time
	rng         *rand.Rand

	tick          uint64
	lastHeartbeat time.Time
	lastTopUp     time.Time
	lastBoard     time.Time

	pub logging.Publisher
	jw  *journal.Writer
}

type snakeState struct {
	protocol.SnakeRecord
	lastHeartbeat time.Time
	joined        bool
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub seeds the food field and returns a hub ready to Run.
func NewHub(cfg Config, pub logging.Publisher, jw *journal.Writer) *Hub {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	h := &Hub{
		cfg:         cfg,
		snakes:      make(map[string]*snakeState),
		subscribers: make(map[string]*subscriber),
		foods:       make(map[string]protocol.FoodRecord),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		pub:         pub,
		jw:          jw,
	}
	h.mu.Lock()
	h.spawnFoodsLocked(cfg.MaxFoods)
	h.mu.Unlock()
	return h
}

// Connect registers a websocket, assigns a session id, and sends the
// full-state snapshot followed by the current leaderboard. The snake itself
// is not live until a join message arrives.
func (h *Hub) Connect(conn *websocket.Conn) (string, error) {
	id := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.snakes[id] = &snakeState{
		SnakeRecord:   protocol.SnakeRecord{ID: id},
		lastHeartbeat: time.Now(),
	}
	init := protocol.InitLocationMsg{
		Type:   protocol.TypeInitLocation,
		ID:     id,
		Snakes: h.liveSnakesLocked(id),
		Foods:  h.activeFoodsLocked(),
	}
	board := protocol.LeaderboardUpdateMsg{
		Type:        protocol.TypeLeaderboardUpdate,
		Leaderboard: h.leaderboardLocked(),
	}
	h.mu.Unlock()

	if err := h.sendTo(id, init); err != nil {
		h.Disconnect(id)
		return "", fmt.Errorf("send snapshot to %s: %w", id, err)
	}
	_ = h.sendTo(id, board)

	h.publish("client_connected", id, nil)
	return id, nil
}

// Disconnect removes a snake and its connection and tells everyone else.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[id]
	if subOK {
		delete(h.subscribers, id)
	}
	state, snakeOK := h.snakes[id]
	wasJoined := snakeOK && state.joined
	if snakeOK {
		delete(h.snakes, id)
	}
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
	if wasJoined {
		h.broadcast(protocol.SnakeLeftMsg{Type: protocol.TypeSnakeLeft, SnakeID: id}, id)
		h.publish("snake_left", id, nil)
	}
}

// HandleMessage routes one inbound frame. Malformed payloads and unknown
// discriminators are dropped, never fatal.
func (h *Hub) HandleMessage(id string, data []byte) {
	base, err := protocol.DecodeBase(data)
	if err != nil {
		h.publish("malformed_message", id, map[string]any{"error": err.Error()})
		return
	}
	h.journal(journal.DirInbound, base.Type, id, data)

	switch base.Type {
	case protocol.TypeJoin:
		var msg protocol.JoinMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		h.handleJoin(id, msg)
	case protocol.TypeMove:
		var msg protocol.MoveMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		h.handleMove(id, msg)
	case protocol.TypeEatFood:
		var msg protocol.EatFoodMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		h.handleEatFood(id, msg)
	case protocol.TypePlayerDied:
		var msg protocol.PlayerDiedMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		h.handlePlayerDied(id, msg)
	case protocol.TypeRespawn:
		var msg protocol.RespawnMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		h.handleRespawn(id, msg)
	case protocol.TypeHeartbeatResponse:
		h.mu.Lock()
		if state, ok := h.snakes[id]; ok {
			state.lastHeartbeat = time.Now()
		}
		h.mu.Unlock()
	default:
		// Forward compatibility: ignore unknown tags.
	}
}

func (h *Hub) handleJoin(id string, msg protocol.JoinMsg) {
	h.mu.Lock()
	state, ok := h.snakes[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	state.X = msg.SnakeX
	state.Y = msg.SnakeY
	state.Color = msg.SnakeColor
	state.Username = msg.Username
	state.Length = 1
	state.Score = 0
	state.Alive = true
	state.joined = true
	record := state.SnakeRecord
	board := h.leaderboardLocked()
	h.mu.Unlock()

	h.broadcast(protocol.SnakeJoinedMsg{Type: protocol.TypeSnakeJoined, Snake: record}, id)
	h.broadcastLeaderboard(board)
	h.publish("snake_joined", id, map[string]any{"name": msg.Username})
}

func (h *Hub) handleMove(id string, msg protocol.MoveMsg) {
	h.mu.Lock()
	state, ok := h.snakes[id]
	if !ok || !state.joined || !state.Alive {
		h.mu.Unlock()
		return
	}
	scoreRose := msg.Score > state.Score
	state.X = msg.SnakeX
	state.Y = msg.SnakeY
	state.Color = msg.SnakeColor
	state.Username = msg.Username
	state.Segments = msg.Segments
	state.Length = msg.Length
	state.Score = msg.Score
	state.Alive = msg.Alive
	record := state.SnakeRecord
	var board []protocol.LeaderboardEntry
	if scoreRose {
		board = h.leaderboardLocked()
	}
	h.mu.Unlock()

	h.broadcast(protocol.SnakeUpdateMsg{Type: protocol.TypeSnakeUpdate, Snake: record}, id)
	if scoreRose {
		h.broadcastLeaderboard(board)
	}
}

// handleEatFood arbitrates an optimistic pickup claim: the first claim for
// an active pellet wins, later claims for the same pellet are no-ops. The
// eaten pellet is replaced by a fresh one (new id, new position) after the
// respawn delay.
func (h *Hub) handleEatFood(id string, msg protocol.EatFoodMsg) {
	h.mu.Lock()
	food, ok := h.foods[msg.FoodID]
	if !ok || !food.Active {
		h.mu.Unlock()
		return
	}
	food.Active = false
	h.foods[msg.FoodID] = food
	h.respawns = append(h.respawns, time.Now().Add(h.cfg.FoodRespawnDelay()))
	h.mu.Unlock()

	h.broadcast(protocol.FoodUpdateMsg{Type: protocol.TypeFoodUpdate, FoodID: msg.FoodID, Active: false}, "")
	h.publish("food_eaten", id, map[string]any{"food": msg.FoodID})
}

// handlePlayerDied records a death report and echoes the adjudication to
// everyone, the reporter included, so life status can never stay split
// between server and client. Reports for already-dead snakes are no-ops.
func (h *Hub) handlePlayerDied(id string, msg protocol.PlayerDiedMsg) {
	h.mu.Lock()
	state, ok := h.snakes[id]
	if !ok || !state.joined || !state.Alive {
		h.mu.Unlock()
		return
	}
	state.Alive = false
	state.Segments = nil
	h.mu.Unlock()

	h.broadcast(protocol.PlayerDiedMsg{
		Type:     protocol.TypePlayerDied,
		SnakeID:  id,
		KillerID: msg.KillerID,
	}, "")
	h.publish("snake_died", id, map[string]any{"killer": msg.KillerID})
}

func (h *Hub) handleRespawn(id string, msg protocol.RespawnMsg) {
	h.mu.Lock()
	state, ok := h.snakes[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	state.X = msg.SnakeX
	state.Y = msg.SnakeY
	state.Color = msg.SnakeColor
	state.Username = msg.Username
	state.Segments = nil
	state.Length = 1
	state.Score = 0
	state.Alive = true
	state.joined = true
	record := state.SnakeRecord
	h.mu.Unlock()

	h.broadcast(protocol.SnakeJoinedMsg{Type: protocol.TypeSnakeJoined, Snake: record}, id)
	h.publish("snake_respawned", id, nil)
}

// Run drives the fixed-rate tick loop until stop closes: heartbeat
// emission, stale-connection sweep, food respawn and top-up, and the
// periodic leaderboard.
func (h *Hub) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			h.advance(now)
		}
	}
}

func (h *Hub) advance(now time.Time) {
	h.mu.Lock()
	h.tick++

	sendHeartbeat := now.Sub(h.lastHeartbeat) >= h.cfg.HeartbeatInterval()
	if sendHeartbeat {
		h.lastHeartbeat = now
	}

	var stale []string
	for id, state := range h.snakes {
		if now.Sub(state.lastHeartbeat) > h.cfg.DisconnectAfter() {
			stale = append(stale, id)
		}
	}

	var fresh []protocol.FoodRecord
	due := 0
	for _, at := range h.respawns {
		if now.Before(at) {
			break
		}
		due++
	}
	if due > 0 {
		h.respawns = h.respawns[due:]
		h.pruneInactiveFoodsLocked(due)
		fresh = h.spawnFoodsLocked(due)
	}

	if now.Sub(h.lastTopUp) >= h.cfg.FoodTopUpInterval() {
		h.lastTopUp = now
		active := 0
		for _, f := range h.foods {
			if f.Active {
				active++
			}
		}
		if float64(active) < float64(h.cfg.MaxFoods)*h.cfg.FoodTopUpThreshold {
			n := h.cfg.MaxFoods - active
			if n > h.cfg.FoodTopUpBatch {
				n = h.cfg.FoodTopUpBatch
			}
			fresh = append(fresh, h.spawnFoodsLocked(n)...)
		}
	}

	var board []protocol.LeaderboardEntry
	if now.Sub(h.lastBoard) >= h.cfg.LeaderboardInterval() {
		h.lastBoard = now
		board = h.leaderboardLocked()
	}
	h.mu.Unlock()

	for _, id := range stale {
		h.publish("heartbeat_timeout", id, nil)
		h.Disconnect(id)
	}
	if sendHeartbeat {
		h.broadcast(protocol.HeartbeatMsg{Type: protocol.TypeHeartbeat, ServerTime: now.UnixMilli()}, "")
	}
	if len(fresh) > 0 {
		h.broadcast(protocol.NewFoodsMsg{Type: protocol.TypeNewFoods, Foods: fresh}, "")
	}
	if board != nil {
		h.broadcastLeaderboard(board)
	}
}

// broadcast marshals once and writes to every subscriber except excludeID.
// A failed write disconnects that subscriber.
func (h *Hub) broadcast(msg any, excludeID string) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.publish("marshal_failed", "", map[string]any{"error": err.Error()})
		return
	}
	if base, err := protocol.DecodeBase(data); err == nil {
		h.journal(journal.DirOutbound, base.Type, "", data)
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		if id == excludeID {
			continue
		}
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.publish("send_failed", id, map[string]any{"error": err.Error()})
			h.Disconnect(id)
		}
	}
}

func (h *Hub) broadcastLeaderboard(entries []protocol.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}
	h.broadcast(protocol.LeaderboardUpdateMsg{
		Type:        protocol.TypeLeaderboardUpdate,
		Leaderboard: entries,
	}, "")
}

func (h *Hub) sendTo(id string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("no subscriber for %s", id)
	}
	return sub.write(data)
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Hub) publish(event, actorID string, payload map[string]any) {
	h.pub.Publish(context.Background(), logging.Event{
		Type:     logging.EventType(event),
		Tick:     h.tick,
		Actor:    logging.EntityRef{ID: actorID, Kind: logging.EntityKindSnake},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

func (h *Hub) journal(dir, msgType, snakeID string, data []byte) {
	if h.jw == nil {
		return
	}
	_ = h.jw.Append(journal.Entry{
		Dir:     dir,
		Type:    msgType,
		SnakeID: snakeID,
		Payload: json.RawMessage(data),
	})
}
