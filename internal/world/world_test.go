package world

import (
	"testing"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

func newTestWorld() *World {
	grid := vecgrid.NewGrid(20, 20)
	return New(7, grid, 4)
}

func TestAllocateEntityIDIsUnique(t *testing.T) {
	w := newTestWorld()
	a := w.AllocateEntityID()
	b := w.AllocateEntityID()
	if a == b {
		t.Fatalf("AllocateEntityID returned the same id twice: %d", a)
	}
}

func TestSeedNextEntityIDAdvancesPastRestoredID(t *testing.T) {
	w := newTestWorld()
	w.SeedNextEntityID(100)
	if got := w.AllocateEntityID(); got <= 100 {
		t.Fatalf("AllocateEntityID() = %d after seeding past 100, want > 100", got)
	}
}

func TestSeedNextEntityIDNeverGoesBackward(t *testing.T) {
	w := newTestWorld()
	first := w.AllocateEntityID()
	w.SeedNextEntityID(1) // smaller than what's already been allocated
	second := w.AllocateEntityID()
	if second <= first {
		t.Fatalf("SeedNextEntityID with a smaller id rewound the allocator: first=%d second=%d", first, second)
	}
}

func TestAddAndRemoveEntityUpdatesSpatialIndex(t *testing.T) {
	w := newTestWorld()
	pos := vecgrid.Vector2{X: 5, Y: 5}
	e := &entity.Entity{ID: w.AllocateEntityID(), Pos: pos, Stats: entity.DefaultStats()}
	w.AddEntity(e)

	if len(w.Spatial.QueryCell(pos)) != 1 {
		t.Fatalf("expected the added entity to be queryable via the spatial index")
	}

	w.RemoveEntity(e.ID)
	if _, ok := w.Entities[e.ID]; ok {
		t.Fatalf("entity still present after RemoveEntity")
	}
	if len(w.Spatial.QueryCell(pos)) != 0 {
		t.Fatalf("spatial index still reports the removed entity")
	}
}

func TestMoveEntityUpdatesSpatialIndex(t *testing.T) {
	w := newTestWorld()
	oldPos := vecgrid.Vector2{X: 2, Y: 2}
	newPos := vecgrid.Vector2{X: 8, Y: 8}
	e := &entity.Entity{ID: w.AllocateEntityID(), Pos: oldPos, Stats: entity.DefaultStats()}
	w.AddEntity(e)

	w.MoveEntity(e.ID, newPos)

	if e.Pos != newPos {
		t.Fatalf("entity.Pos = %v after MoveEntity, want %v", e.Pos, newPos)
	}
	if len(w.Spatial.QueryCell(oldPos)) != 0 {
		t.Fatalf("spatial index still reports the entity at its old position")
	}
	if len(w.Spatial.QueryCell(newPos)) != 1 {
		t.Fatalf("spatial index does not report the entity at its new position")
	}
}

func TestDropAndPickupItems(t *testing.T) {
	w := newTestWorld()
	pos := vecgrid.Vector2{X: 3, Y: 3}

	w.DropItems(pos, []string{"sword", "shield"})
	if len(w.GroundItems[pos]) != 2 {
		t.Fatalf("expected 2 ground items at %v, got %d", pos, len(w.GroundItems[pos]))
	}

	got := w.PickupItems(pos)
	if len(got) != 2 {
		t.Fatalf("PickupItems returned %d items, want 2", len(got))
	}
	if _, ok := w.GroundItems[pos]; ok {
		t.Fatalf("ground items at %v were not cleared after pickup", pos)
	}
}

func TestResourceAtAndChestAt(t *testing.T) {
	w := newTestWorld()
	pos := vecgrid.Vector2{X: 6, Y: 6}
	w.AddResourceNode(&ResourceNode{ID: w.AllocateNodeID(), Pos: pos, ItemID: "herb"})

	if n := w.ResourceAt(pos); n == nil || n.ItemID != "herb" {
		t.Fatalf("ResourceAt(%v) = %v, want a herb node", pos, n)
	}
	if n := w.ResourceAt(vecgrid.Vector2{X: 0, Y: 0}); n != nil {
		t.Fatalf("ResourceAt found a node at an empty tile")
	}

	chestPos := vecgrid.Vector2{X: 7, Y: 7}
	chestID := w.AllocateChestID()
	w.Chests[chestID] = &TreasureChest{ID: chestID, Pos: chestPos, ItemIDs: []string{"gold"}}

	if c := w.ChestAt(chestPos); c == nil {
		t.Fatalf("ChestAt(%v) = nil, want the placed chest", chestPos)
	}
}

func TestAliveNonSpawnerCount(t *testing.T) {
	w := newTestWorld()
	alive := entity.DefaultStats()
	dead := entity.DefaultStats()
	dead.HP = 0

	w.AddEntity(&entity.Entity{ID: w.AllocateEntityID(), Kind: "mob", Stats: alive})
	w.AddEntity(&entity.Entity{ID: w.AllocateEntityID(), Kind: "mob", Stats: dead})
	w.AddEntity(&entity.Entity{ID: w.AllocateEntityID(), Kind: "spawner", Stats: alive})

	if got := w.AliveNonSpawnerCount(); got != 1 {
		t.Fatalf("AliveNonSpawnerCount() = %d, want 1", got)
	}
}

func TestRegionForNearestCenter(t *testing.T) {
	w := newTestWorld()
	w.Regions = []*Region{
		{ID: 1, Center: vecgrid.Vector2{X: 0, Y: 0}, Kind: "plains"},
		{ID: 2, Center: vecgrid.Vector2{X: 19, Y: 19}, Kind: "mountains"},
	}

	r := w.RegionFor(vecgrid.Vector2{X: 18, Y: 18})
	if r == nil || r.ID != 2 {
		t.Fatalf("RegionFor(near far corner) = %+v, want region 2", r)
	}

	r = w.RegionFor(vecgrid.Vector2{X: 1, Y: 1})
	if r == nil || r.ID != 1 {
		t.Fatalf("RegionFor(near origin) = %+v, want region 1", r)
	}
}
