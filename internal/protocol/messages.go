package protocol

import "snakepit/internal/geom"

// SnakeRecord is the full wire form of one snake, used in snapshots and
// per-snake upserts.
type SnakeRecord struct {
	ID       string       `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Color    string       `json:"color"`
	Username string       `json:"username"`
	Segments []geom.Point `json:"segments"`
	Length   int          `json:"length"`
	Score    int          `json:"score"`
	Alive    bool         `json:"alive"`
}

// FoodRecord is the wire form of one food pellet.
type FoodRecord struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Active bool    `json:"active"`
}

// join (client -> server), sent once per connection after identity resolves.
type JoinMsg struct {
	Type       string  `json:"messageType"`
	SnakeX     float64 `json:"snake_x"`
	SnakeY     float64 `json:"snake_y"`
	SnakeColor string  `json:"snake_color"`
	Username   string  `json:"username"`
}

// move (client -> server), throttled by both elapsed time and travelled
// distance since the previous send.
type MoveMsg struct {
	Type       string       `json:"messageType"`
	SnakeX     float64      `json:"snake_x"`
	SnakeY     float64      `json:"snake_y"`
	SnakeColor string       `json:"snake_color"`
	Username   string       `json:"username"`
	Segments   []geom.Point `json:"segments"`
	Length     int          `json:"length"`
	Score      int          `json:"score"`
	Alive      bool         `json:"alive"`
}

// eat_food (client -> server), an optimistic pickup claim the server
// arbitrates.
type EatFoodMsg struct {
	Type   string `json:"messageType"`
	FoodID string `json:"food_id"`
}

// player_died travels both ways: the client reports its own death with the
// segments it dropped, the server echoes the authoritative adjudication with
// the dead snake's id.
type PlayerDiedMsg struct {
	Type     string       `json:"messageType"`
	SnakeID  string       `json:"snake_id,omitempty"`
	KillerID string       `json:"killer_id,omitempty"`
	Segments []geom.Point `json:"segments,omitempty"`
	Color    string       `json:"color,omitempty"`
}

// respawn (client -> server), same shape as join but after a death.
type RespawnMsg struct {
	Type       string  `json:"messageType"`
	SnakeX     float64 `json:"snake_x"`
	SnakeY     float64 `json:"snake_y"`
	SnakeColor string  `json:"snake_color"`
	Username   string  `json:"username"`
}

// heartbeat (server -> client); must be answered or the server drops the
// connection after the grace window.
type HeartbeatMsg struct {
	Type       string `json:"messageType"`
	ServerTime int64  `json:"serverTime"`
}

// heartbeat_response (client -> server).
type HeartbeatResponseMsg struct {
	Type       string `json:"messageType"`
	ClientTime int64  `json:"clientTime,omitempty"`
}

// init_location (server -> client), the full-state snapshot sent once per
// connection. ID is the server-assigned identity for this session.
type InitLocationMsg struct {
	Type   string        `json:"messageType"`
	ID     string        `json:"id"`
	Snakes []SnakeRecord `json:"snakes"`
	Foods  []FoodRecord  `json:"foods"`
}

type SnakeJoinedMsg struct {
	Type  string      `json:"messageType"`
	Snake SnakeRecord `json:"snake"`
}

type SnakeUpdateMsg struct {
	Type  string      `json:"messageType"`
	Snake SnakeRecord `json:"snake"`
}

type SnakeLeftMsg struct {
	Type    string `json:"messageType"`
	SnakeID string `json:"snake_id"`
}

// food_update (server -> client) toggles one pellet. Eaten pellets stay in
// the store inactive; replacements arrive later as new_foods with fresh ids,
// so an id never moves to a different position.
type FoodUpdateMsg struct {
	Type   string `json:"messageType"`
	FoodID string `json:"food_id"`
	Active bool   `json:"active"`
}

type NewFoodsMsg struct {
	Type  string       `json:"messageType"`
	Foods []FoodRecord `json:"foods"`
}

type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type LeaderboardUpdateMsg struct {
	Type        string             `json:"messageType"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
