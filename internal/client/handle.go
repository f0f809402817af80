package client

import (
	"encoding/json"
	"time"

	"snakepit/internal/protocol"
	"snakepit/internal/sim"
	"snakepit/internal/state"
)

// handleMessage reconciles one inbound frame into local state. Unknown
// tags, unknown ids, and repeated updates are all benign.
func (c *Client) handleMessage(data []byte) {
	base, err := protocol.DecodeBase(data)
	if err != nil {
		return
	}

	switch base.Type {
	case protocol.TypeInitLocation:
		var msg protocol.InitLocationMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.handleInitLocation(msg)

	case protocol.TypeSnakeJoined:
		var msg protocol.SnakeJoinedMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.reconcileSnake(msg.Snake)

	case protocol.TypeSnakeUpdate:
		var msg protocol.SnakeUpdateMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.reconcileSnake(msg.Snake)

	case protocol.TypeSnakeLeft:
		var msg protocol.SnakeLeftMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.store.RemoveSnake(msg.SnakeID)

	case protocol.TypePlayerDied:
		var msg protocol.PlayerDiedMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.handlePlayerDied(msg)

	case protocol.TypeFoodUpdate:
		var msg protocol.FoodUpdateMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.store.SetFoodActive(msg.FoodID, msg.Active)

	case protocol.TypeNewFoods:
		var msg protocol.NewFoodsMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.store.MergeFoods(state.FoodsFromRecords(msg.Foods))

	case protocol.TypeLeaderboardUpdate:
		var msg protocol.LeaderboardUpdateMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		c.leaderboard = msg.Leaderboard

	case protocol.TypeHeartbeat:
		c.send(protocol.HeartbeatResponseMsg{
			Type:       protocol.TypeHeartbeatResponse,
			ClientTime: time.Now().UnixMilli(),
		})

	default:
		// Forward compatibility: ignore unknown tags.
	}
}

// handleInitLocation adopts the server-assigned id, replaces local state
// with the snapshot, and announces the snake. Runs once per connection.
func (c *Client) handleInitLocation(msg protocol.InitLocationMsg) {
	c.id = msg.ID
	c.store.SetFoods(state.FoodsFromRecords(msg.Foods))
	snakes := make([]state.Snake, 0, len(msg.Snakes))
	for _, r := range msg.Snakes {
		if r.ID == c.id {
			continue
		}
		snakes = append(snakes, state.SnakeFromRecord(r))
	}
	c.store.ReplaceSnakes(snakes)
	c.engine = sim.NewEngine(c.cfg.Sim, c.cfg.World, c.store, c.sess, c, c.id, c.identity.Username, c.color)
	c.throttle.Reset()

	// A death that straddled a reconnect announces itself through the
	// respawn flow instead of a join.
	if !c.sess.Alive() {
		return
	}
	head := c.engine.Head()
	c.send(protocol.JoinMsg{
		Type:       protocol.TypeJoin,
		SnakeX:     head.X,
		SnakeY:     head.Y,
		SnakeColor: c.color,
		Username:   c.identity.Username,
	})
}

// reconcileSnake applies a server snake record. For the local id the
// movement fields are ignored (the client owns its own visual position
// between corrections), but a dead verdict is always honored.
func (c *Client) reconcileSnake(r protocol.SnakeRecord) {
	if r.ID == c.id {
		if !r.Alive && c.sess.Alive() && c.engine != nil {
			c.engine.ForceDeath(time.Now())
		}
		return
	}
	c.store.UpsertRemote(state.SnakeFromRecord(r))
}

func (c *Client) handlePlayerDied(msg protocol.PlayerDiedMsg) {
	if msg.SnakeID == c.id {
		// Server adjudication; forces the transition if the local side
		// missed the collision. Already-dead is a no-op.
		if c.engine != nil {
			c.engine.ForceDeath(time.Now())
		}
		return
	}
	c.store.MarkSnakeDead(msg.SnakeID)
	if msg.KillerID == c.id {
		c.sess.RecordKill()
	}
}
