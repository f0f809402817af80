package protocol

import (
	"encoding/json"
	"testing"

	"snakepit/internal/geom"
)

func TestDecodeBaseRoutesByDiscriminator(t *testing.T) {
	b, err := DecodeBase([]byte(`{"messageType":"eat_food","food_id":"f1"}`))
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if b.Type != TypeEatFood {
		t.Fatalf("type = %q, want %q", b.Type, TypeEatFood)
	}
}

func TestDecodeBaseUnknownTag(t *testing.T) {
	b, err := DecodeBase([]byte(`{"messageType":"shiny_new_thing"}`))
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if b.Type != "shiny_new_thing" {
		t.Fatalf("type = %q", b.Type)
	}
}

func TestDecodeBaseMalformed(t *testing.T) {
	if _, err := DecodeBase([]byte(`{{`)); err == nil {
		t.Fatal("malformed frame decoded")
	}
}

// The flattened snake_x/snake_y field names are a wire compatibility
// contract; renaming the struct fields must not rename the JSON keys.
func TestMoveWireFieldNames(t *testing.T) {
	data, err := json.Marshal(MoveMsg{
		Type:     TypeMove,
		SnakeX:   12.5,
		SnakeY:   8,
		Username: "a",
		Segments: []geom.Point{{X: 12.5, Y: 8}},
		Length:   1,
		Alive:    true,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"messageType", "snake_x", "snake_y", "segments", "length", "alive"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("wire key %q missing from %s", key, data)
		}
	}
}

func TestPlayerDiedOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(PlayerDiedMsg{Type: TypePlayerDied, SnakeID: "s1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["killer_id"]; ok {
		t.Fatal("empty killer_id serialized")
	}
	if _, ok := raw["segments"]; ok {
		t.Fatal("empty segments serialized")
	}
}
