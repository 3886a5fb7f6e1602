package states

import (
	"strings"
	"testing"

	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/snapshot"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

func newHero(pos vecgrid.Vector2) *entity.Entity {
	return &entity.Entity{
		ID:        1,
		Kind:      "hero",
		Pos:       pos,
		Stats:     entity.DefaultStats(),
		Inventory: entity.NewInventory(2, 100),
		IsHero:    true,
	}
}

func snapshotWithGroundItems(grid *vecgrid.Grid, items map[vecgrid.Vector2][]string) *snapshot.Snapshot {
	w := world.New(1, grid, 4)
	for pos, ids := range items {
		w.GroundItems[pos] = ids
	}
	return snapshot.FromWorld(w)
}

func testContext(actor *entity.Entity, snap *snapshot.Snapshot) *Context {
	return &Context{
		Actor:    actor,
		Snapshot: snap,
		Config:   config.Default(),
		Factions: faction.Default(),
		Items:    entity.MapItemRegistry{},
		RNG:      rng.New(1),
		Tick:     1,
	}
}

func TestHandleLootingAbortsToWanderWhenBagFull(t *testing.T) {
	grid := vecgrid.NewGrid(10, 10)
	actor := newHero(vecgrid.Vector2{X: 0, Y: 0})
	actor.Inventory.Items = []string{"potion", "rope"} // fills the 2 slots

	snap := snapshotWithGroundItems(grid, map[vecgrid.Vector2][]string{
		{X: 1, Y: 0}: {"sword"},
	})

	actor.LootProgress = 3
	p := handleLooting(testContext(actor, snap))

	if !strings.Contains(p.Reason, "Bag full") {
		t.Fatalf("Reason = %q, want it to contain %q", p.Reason, "Bag full")
	}
	if p.NewAIState == nil || *p.NewAIState != entity.Wander {
		t.Fatalf("expected transition to Wander, got %+v", p.NewAIState)
	}
	if actor.LootProgress != 0 {
		t.Fatalf("LootProgress = %d, want reset to 0", actor.LootProgress)
	}
}

func TestHandleLootingProceedsWhenBagHasRoom(t *testing.T) {
	grid := vecgrid.NewGrid(10, 10)
	actor := newHero(vecgrid.Vector2{X: 1, Y: 0})

	snap := snapshotWithGroundItems(grid, map[vecgrid.Vector2][]string{
		{X: 1, Y: 0}: {"sword"},
	})

	p := handleLooting(testContext(actor, snap))
	if strings.Contains(p.Reason, "Bag full") {
		t.Fatalf("should not abort with room in the bag, got reason %q", p.Reason)
	}
	if actor.LootProgress != 1 {
		t.Fatalf("LootProgress = %d, want incremented to 1 on pickup", actor.LootProgress)
	}
}

func TestHandleHarvestingTieBreaksDeterministically(t *testing.T) {
	grid := vecgrid.NewGrid(10, 10)
	w := world.New(1, grid, 4)
	actor := newHero(vecgrid.Vector2{X: 5, Y: 5})

	// Two equidistant resource nodes; the lower NodeID must always win,
	// regardless of map iteration order.
	w.Resources[20] = &world.ResourceNode{ID: 20, Pos: vecgrid.Vector2{X: 4, Y: 5}, Charges: 1}
	w.Resources[10] = &world.ResourceNode{ID: 10, Pos: vecgrid.Vector2{X: 6, Y: 5}, Charges: 1}

	var p1, p2 action.Proposal
	for i := 0; i < 20; i++ {
		snap := snapshot.FromWorld(w)
		p := handleHarvesting(testContext(actor, snap))
		if i == 0 {
			p1 = p
		}
		p2 = p
	}

	if p1.Reason != p2.Reason {
		t.Fatalf("handleHarvesting result depends on slice order: %q vs %q", p1.Reason, p2.Reason)
	}
	if (p1.Target.Pos == nil) != (p2.Target.Pos == nil) {
		t.Fatalf("handleHarvesting target shape differs across slice order: %+v vs %+v", p1.Target, p2.Target)
	}
	if p1.Target.Pos != nil && p2.Target.Pos != nil && *p1.Target.Pos != *p2.Target.Pos {
		t.Fatalf("handleHarvesting moved toward different positions depending on slice order: %v vs %v", *p1.Target.Pos, *p2.Target.Pos)
	}
	if p1.Target.Pos == nil || *p1.Target.Pos != (vecgrid.Vector2{X: 6, Y: 5}) {
		t.Fatalf("handleHarvesting target = %+v, want a step toward node 10 at {6 5}", p1.Target)
	}
}
