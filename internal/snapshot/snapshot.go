// Package snapshot produces immutable, deep-copied views of the World for
// parallel AI reads, grounded on original_source/src/core/snapshot.py.
package snapshot

import (
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// Snapshot is a frozen point-in-time view of the World. It must never be
// mutated by readers; the loop thread is the only writer of the World it was
// built from.
type Snapshot struct {
	Tick    int64
	Seed    int64
	Entities map[entity.ID]*entity.Entity
	Grid    *vecgrid.Grid

	GroundItems map[vecgrid.Vector2][]string

	Camps     []vecgrid.Vector2
	Buildings []*world.Building
	Resources []*world.ResourceNode
	Chests    []*world.TreasureChest
	Regions   []*world.Region
}

// FromWorld deep-copies every mutable entity field and freezes collection
// references, per spec §4.4.
func FromWorld(w *world.World) *Snapshot {
	entities := make(map[entity.ID]*entity.Entity, len(w.Entities))
	for id, e := range w.Entities {
		entities[id] = e.Copy()
	}

	groundItems := make(map[vecgrid.Vector2][]string, len(w.GroundItems))
	for pos, items := range w.GroundItems {
		cp := make([]string, len(items))
		copy(cp, items)
		groundItems[pos] = cp
	}

	camps := make([]vecgrid.Vector2, len(w.Camps))
	copy(camps, w.Camps)

	buildings := make([]*world.Building, 0, len(w.Buildings))
	for _, b := range w.Buildings {
		bv := *b
		buildings = append(buildings, &bv)
	}

	resources := make([]*world.ResourceNode, 0, len(w.Resources))
	for _, n := range w.Resources {
		nv := *n
		resources = append(resources, &nv)
	}

	chests := make([]*world.TreasureChest, 0, len(w.Chests))
	for _, c := range w.Chests {
		cv := *c
		cv.ItemIDs = append([]string(nil), c.ItemIDs...)
		chests = append(chests, &cv)
	}

	regions := make([]*world.Region, len(w.Regions))
	for i, r := range w.Regions {
		rv := *r
		regions[i] = &rv
	}

	// Grid is immutable post-construction (spec §1), so it is safe to share
	// the same reference rather than deep-copy it every tick.
	return &Snapshot{
		Tick:        w.Tick,
		Seed:        w.Seed,
		Entities:    entities,
		Grid:        w.Grid,
		GroundItems: groundItems,
		Camps:       camps,
		Buildings:   buildings,
		Resources:   resources,
		Chests:      chests,
		Regions:     regions,
	}
}

func (s *Snapshot) Entity(id entity.ID) (*entity.Entity, bool) {
	e, ok := s.Entities[id]
	return e, ok
}
