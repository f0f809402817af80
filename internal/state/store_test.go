package state

import (
	"reflect"
	"testing"

	"snakepit/internal/camera"
	"snakepit/internal/geom"
)

func testSnake(id string, head geom.Point) Snake {
	return Snake{
		ID:       id,
		Name:     "p-" + id,
		Color:    "#00FF00",
		Segments: []geom.Point{head},
		Length:   1,
		Alive:    true,
	}
}

func TestUpsertAndRemove(t *testing.T) {
	st := NewStore()
	st.UpsertRemote(testSnake("a", geom.Point{X: 10, Y: 10}))
	st.UpsertRemote(testSnake("b", geom.Point{X: 20, Y: 20}))

	if got := len(st.SnakesExcept("a")); got != 1 {
		t.Fatalf("SnakesExcept(a) = %d snakes, want 1", got)
	}

	st.RemoveSnake("b")
	if got := len(st.SnakesExcept("a")); got != 0 {
		t.Fatalf("after remove: %d snakes, want 0", got)
	}

	// Removing an unknown id is a no-op.
	st.RemoveSnake("ghost")
}

func TestUpsertUnknownIDIsImplicitJoin(t *testing.T) {
	st := NewStore()
	st.UpsertRemote(testSnake("never-seen", geom.Point{X: 5, Y: 5}))
	if _, ok := st.Snake("never-seen"); !ok {
		t.Fatal("implicit join failed")
	}
}

func TestMarkSnakeDead(t *testing.T) {
	st := NewStore()
	st.UpsertRemote(testSnake("a", geom.Point{X: 10, Y: 10}))
	st.MarkSnakeDead("a")
	s, _ := st.Snake("a")
	if s.Alive {
		t.Fatal("snake still alive")
	}
	// Repeats and unknown ids are benign.
	st.MarkSnakeDead("a")
	st.MarkSnakeDead("ghost")
}

func TestSetFoodActiveIdempotent(t *testing.T) {
	st := NewStore()
	st.SetFoods([]Food{{ID: "f1", Pos: geom.Point{X: 1, Y: 1}, Active: true}})

	st.SetFoodActive("f1", false)
	onceTotal, onceActive := st.FoodCount()
	oncePellets := st.ActiveFoods()

	st.SetFoodActive("f1", false)
	twiceTotal, twiceActive := st.FoodCount()
	twicePellets := st.ActiveFoods()

	if onceTotal != twiceTotal || onceActive != twiceActive {
		t.Fatalf("counts drifted: %d/%d then %d/%d", onceTotal, onceActive, twiceTotal, twiceActive)
	}
	if !reflect.DeepEqual(oncePellets, twicePellets) {
		t.Fatalf("second deactivation changed pellets: %+v vs %+v", oncePellets, twicePellets)
	}
}

func TestSetFoodActiveUnknownIDIsNoop(t *testing.T) {
	st := NewStore()
	st.SetFoods([]Food{{ID: "f1", Active: true}})
	st.SetFoodActive("missing", false)
	if _, active := st.FoodCount(); active != 1 {
		t.Fatalf("active = %d, want 1", active)
	}
}

func TestMergeFoodsAppendsAndOverwrites(t *testing.T) {
	st := NewStore()
	st.SetFoods([]Food{{ID: "f1", Active: true}})
	st.MergeFoods([]Food{
		{ID: "f1", Active: false},
		{ID: "f2", Active: true},
	})
	total, active := st.FoodCount()
	if total != 2 || active != 1 {
		t.Fatalf("total=%d active=%d, want 2/1", total, active)
	}
}

func TestVisibleFoodsCulls(t *testing.T) {
	st := NewStore()
	st.SetFoods([]Food{
		{ID: "near", Pos: geom.Point{X: 150, Y: 150}, Active: true},
		{ID: "far", Pos: geom.Point{X: 1100, Y: 700}, Active: true},
		{ID: "eaten", Pos: geom.Point{X: 160, Y: 160}, Active: false},
	})
	cam := camera.Camera{Pos: geom.Point{X: 100, Y: 100}, Viewport: geom.Point{X: 400, Y: 300}}
	visible := st.VisibleFoods(cam, 0)
	if len(visible) != 1 || visible[0].ID != "near" {
		t.Fatalf("visible = %+v, want just \"near\"", visible)
	}
}

func TestReplaceSnakes(t *testing.T) {
	st := NewStore()
	st.UpsertRemote(testSnake("old", geom.Point{}))
	st.ReplaceSnakes([]Snake{testSnake("new", geom.Point{})})
	if _, ok := st.Snake("old"); ok {
		t.Fatal("stale snake survived replace")
	}
	if _, ok := st.Snake("new"); !ok {
		t.Fatal("replacement snake missing")
	}
}
