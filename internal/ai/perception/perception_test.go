package perception

import (
	"testing"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/snapshot"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

func TestGroundLootNearbyTieBreaksDeterministically(t *testing.T) {
	grid := vecgrid.NewGrid(10, 10)
	w := world.New(1, grid, 4)
	actor := &entity.Entity{ID: 1, Pos: vecgrid.Vector2{X: 5, Y: 5}, Stats: entity.DefaultStats()}

	// Two equidistant piles; (4,5) sorts before (6,5) lexicographically.
	w.GroundItems[vecgrid.Vector2{X: 6, Y: 5}] = []string{"gold"}
	w.GroundItems[vecgrid.Vector2{X: 4, Y: 5}] = []string{"gold"}

	var want vecgrid.Vector2
	for i := 0; i < 20; i++ {
		snap := snapshot.FromWorld(w)
		pos, ok := GroundLootNearby(actor, snap, 10)
		if !ok {
			t.Fatalf("expected a ground loot pile to be found")
		}
		if i == 0 {
			want = pos
			continue
		}
		if pos != want {
			t.Fatalf("GroundLootNearby tie-break depends on map order: got %v, first run gave %v", pos, want)
		}
	}
	if want != (vecgrid.Vector2{X: 4, Y: 5}) {
		t.Fatalf("GroundLootNearby = %v, want the lowest (X,Y) tie-break at {4 5}", want)
	}
}

func TestGroundLootNearbySkipsEmptyPiles(t *testing.T) {
	grid := vecgrid.NewGrid(10, 10)
	w := world.New(1, grid, 4)
	actor := &entity.Entity{ID: 1, Pos: vecgrid.Vector2{X: 0, Y: 0}, Stats: entity.DefaultStats()}
	w.GroundItems[vecgrid.Vector2{X: 1, Y: 0}] = nil

	snap := snapshot.FromWorld(w)
	if _, ok := GroundLootNearby(actor, snap, 10); ok {
		t.Fatalf("expected no loot found when the only pile is empty")
	}
}
