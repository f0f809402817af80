// Package protocol defines the tagged JSON messages exchanged between the
// arena server and its clients over a single websocket.
package protocol

import "encoding/json"

// Message types, client -> server.
const (
	TypeJoin              = "join"
	TypeMove              = "move"
	TypeEatFood           = "eat_food"
	TypePlayerDied        = "player_died"
	TypeRespawn           = "respawn"
	TypeHeartbeatResponse = "heartbeat_response"
)

// Message types, server -> client.
const (
	TypeInitLocation      = "init_location"
	TypeSnakeJoined       = "snake_joined"
	TypeSnakeUpdate       = "snake_update"
	TypeSnakeLeft         = "snake_left"
	TypeFoodUpdate        = "food_update"
	TypeNewFoods          = "new_foods"
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeHeartbeat         = "heartbeat"
)

// BaseMessage lets us route unknown JSON messages by their discriminator.
// Unknown types are ignored by both sides, never treated as fatal.
type BaseMessage struct {
	Type string `json:"messageType"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
