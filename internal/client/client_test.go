package client

import (
	"encoding/json"
	"testing"

	"snakepit/internal/geom"
	"snakepit/internal/protocol"
)

// newOfflineClient builds a client with no connection. send is a no-op
// without a conn, so handleMessage can be driven directly.
func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	return New(DefaultConfig("ws://unused/ws"), Identity{ID: "u1", Username: "tester"}, nil)
}

func deliver(t *testing.T, c *Client, msg any) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c.handleMessage(data)
}

func initClient(t *testing.T, c *Client) {
	t.Helper()
	deliver(t, c, protocol.InitLocationMsg{
		Type: protocol.TypeInitLocation,
		ID:   "me",
		Snakes: []protocol.SnakeRecord{
			{ID: "other", Segments: []geom.Point{{X: 50, Y: 50}}, Length: 1, Alive: true},
		},
		Foods: []protocol.FoodRecord{
			{ID: "f1", X: 10, Y: 10, Active: true},
		},
	})
}

func TestInitLocationAdoptsIDAndSnapshot(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)

	if c.id != "me" {
		t.Fatalf("id = %q, want the server-assigned one", c.id)
	}
	if c.engine == nil {
		t.Fatal("engine not created on snapshot")
	}
	if _, ok := c.store.Snake("other"); !ok {
		t.Fatal("snapshot snake missing")
	}
	if _, ok := c.store.Snake("me"); ok {
		t.Fatal("local snake leaked into the remote store")
	}
	if total, active := c.store.FoodCount(); total != 1 || active != 1 {
		t.Fatalf("foods = %d/%d, want 1/1", total, active)
	}
}

func TestSnakeUpdateForUnknownIDIsImplicitJoin(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)

	deliver(t, c, protocol.SnakeUpdateMsg{
		Type: protocol.TypeSnakeUpdate,
		Snake: protocol.SnakeRecord{
			ID:       "fresh",
			Segments: []geom.Point{{X: 1, Y: 2}},
			Length:   1,
			Alive:    true,
		},
	})
	if _, ok := c.store.Snake("fresh"); !ok {
		t.Fatal("update for unknown id was dropped")
	}
}

func TestSnakeUpdateForLocalIDIgnoresMovement(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)
	before := c.engine.Head()

	deliver(t, c, protocol.SnakeUpdateMsg{
		Type: protocol.TypeSnakeUpdate,
		Snake: protocol.SnakeRecord{
			ID:       "me",
			Segments: []geom.Point{{X: 1, Y: 1}},
			Length:   1,
			Alive:    true,
		},
	})
	if got := c.engine.Head(); got != before {
		t.Fatalf("server echo moved the local head: %+v", got)
	}
	if _, ok := c.store.Snake("me"); ok {
		t.Fatal("local echo stored as a remote snake")
	}
}

func TestServerDeathVerdictForcesLocalDeath(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)
	if !c.sess.Alive() {
		t.Fatal("not alive after init")
	}

	deliver(t, c, protocol.PlayerDiedMsg{
		Type:    protocol.TypePlayerDied,
		SnakeID: "me",
	})
	if c.sess.Alive() {
		t.Fatal("server verdict did not kill the local snake")
	}

	// Repeats are absorbed.
	deliver(t, c, protocol.PlayerDiedMsg{Type: protocol.TypePlayerDied, SnakeID: "me"})
}

func TestRemoteDeathMarksSnakeAndCreditsKiller(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)

	deliver(t, c, protocol.PlayerDiedMsg{
		Type:     protocol.TypePlayerDied,
		SnakeID:  "other",
		KillerID: "me",
	})

	s, ok := c.store.Snake("other")
	if !ok || s.Alive {
		t.Fatalf("remote death not applied: ok=%v alive=%v", ok, s.Alive)
	}
	if got := c.Stats().Kills; got != 1 {
		t.Fatalf("kills = %d, want 1", got)
	}
}

func TestSnakeLeftRemoves(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)
	deliver(t, c, protocol.SnakeLeftMsg{Type: protocol.TypeSnakeLeft, SnakeID: "other"})
	if _, ok := c.store.Snake("other"); ok {
		t.Fatal("departed snake still present")
	}
}

func TestFoodUpdateIsIdempotentAndUnknownIDSafe(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)

	deliver(t, c, protocol.FoodUpdateMsg{Type: protocol.TypeFoodUpdate, FoodID: "f1", Active: false})
	deliver(t, c, protocol.FoodUpdateMsg{Type: protocol.TypeFoodUpdate, FoodID: "f1", Active: false})
	deliver(t, c, protocol.FoodUpdateMsg{Type: protocol.TypeFoodUpdate, FoodID: "ghost", Active: false})

	if total, active := c.store.FoodCount(); total != 1 || active != 0 {
		t.Fatalf("foods = %d/%d, want 1/0", total, active)
	}
}

func TestNewFoodsMerge(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)

	deliver(t, c, protocol.NewFoodsMsg{
		Type: protocol.TypeNewFoods,
		Foods: []protocol.FoodRecord{
			{ID: "f2", X: 30, Y: 30, Active: true},
		},
	})
	if total, active := c.store.FoodCount(); total != 2 || active != 2 {
		t.Fatalf("foods = %d/%d, want 2/2", total, active)
	}
}

func TestLeaderboardUpdateStored(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)
	deliver(t, c, protocol.LeaderboardUpdateMsg{
		Type: protocol.TypeLeaderboardUpdate,
		Leaderboard: []protocol.LeaderboardEntry{
			{ID: "other", Name: "x", Score: 9},
		},
	})
	if len(c.leaderboard) != 1 || c.leaderboard[0].Score != 9 {
		t.Fatalf("leaderboard = %+v", c.leaderboard)
	}
}

func TestUnknownMessageTypeIgnored(t *testing.T) {
	c := newOfflineClient(t)
	initClient(t, c)
	c.handleMessage([]byte(`{"messageType":"future_feature","payload":123}`))
	c.handleMessage([]byte(`not json`))
}

func TestSendWithoutConnIsNoop(t *testing.T) {
	c := newOfflineClient(t)
	c.send(protocol.EatFoodMsg{Type: protocol.TypeEatFood, FoodID: "f1"})
}
