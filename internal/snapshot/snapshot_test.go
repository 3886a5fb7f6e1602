package snapshot

import (
	"testing"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

func newTestWorld() *world.World {
	grid := vecgrid.NewGrid(10, 10)
	w := world.New(1, grid, 4)
	w.AddEntity(&entity.Entity{
		ID:    w.AllocateEntityID(),
		Kind:  "hero",
		Pos:   vecgrid.Vector2{X: 1, Y: 1},
		Stats: entity.DefaultStats(),
	})
	return w
}

func TestFromWorldCopiesEntities(t *testing.T) {
	w := newTestWorld()
	snap := FromWorld(w)

	if len(snap.Entities) != len(w.Entities) {
		t.Fatalf("snapshot has %d entities, want %d", len(snap.Entities), len(w.Entities))
	}

	var id entity.ID
	for eid := range w.Entities {
		id = eid
	}

	snapEntity := snap.Entities[id]
	if snapEntity == w.Entities[id] {
		t.Fatalf("snapshot entity shares the same pointer as the live world entity")
	}
}

func TestSnapshotIsIsolatedFromLaterMutation(t *testing.T) {
	w := newTestWorld()
	snap := FromWorld(w)

	var id entity.ID
	for eid := range w.Entities {
		id = eid
	}

	before := snap.Entities[id].Stats.HP
	w.Entities[id].Stats.HP -= 10

	after := snap.Entities[id].Stats.HP
	if before != after {
		t.Fatalf("mutating the live world after FromWorld changed the snapshot's HP: before=%d after=%d", before, after)
	}
}

func TestSnapshotEntityLookup(t *testing.T) {
	w := newTestWorld()
	snap := FromWorld(w)

	var id entity.ID
	for eid := range w.Entities {
		id = eid
	}

	if _, ok := snap.Entity(id); !ok {
		t.Fatalf("Entity(%d) not found in snapshot", id)
	}
	if _, ok := snap.Entity(id + 999); ok {
		t.Fatalf("Entity() found a nonexistent id")
	}
}

func TestFromWorldSharesGridReference(t *testing.T) {
	w := newTestWorld()
	snap := FromWorld(w)
	if snap.Grid != w.Grid {
		t.Fatalf("FromWorld should share the immutable grid reference, not copy it")
	}
}
