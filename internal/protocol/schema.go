package protocol

// MessageCatalog enumerates every message in the protocol so the schema
// generator can reflect over the full set in one pass.
type MessageCatalog struct {
	Join              JoinMsg              `json:"join"`
	Move              MoveMsg              `json:"move"`
	EatFood           EatFoodMsg           `json:"eat_food"`
	PlayerDied        PlayerDiedMsg        `json:"player_died"`
	Respawn           RespawnMsg           `json:"respawn"`
	HeartbeatResponse HeartbeatResponseMsg `json:"heartbeat_response"`
	InitLocation      InitLocationMsg      `json:"init_location"`
	SnakeJoined       SnakeJoinedMsg       `json:"snake_joined"`
	SnakeUpdate       SnakeUpdateMsg       `json:"snake_update"`
	SnakeLeft         SnakeLeftMsg         `json:"snake_left"`
	FoodUpdate        FoodUpdateMsg        `json:"food_update"`
	NewFoods          NewFoodsMsg          `json:"new_foods"`
	Leaderboard       LeaderboardUpdateMsg `json:"leaderboard_update"`
	Heartbeat         HeartbeatMsg         `json:"heartbeat"`
}
