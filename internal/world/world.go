// Package world holds the mutable World struct — the single source of
// truth the loop thread owns, grounded on
// original_source/src/core/world_state.py's WorldState.
package world

import (
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/spatial"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

type NodeID uint64
type ChestID uint64
type RegionID uint64
type BuildingID uint64

// ResourceNode is a harvestable world object with a respawn timer.
type ResourceNode struct {
	ID              NodeID
	Pos             vecgrid.Vector2
	ItemID          string
	Charges         int
	MaxCharges      int
	RespawnTicks    int
	TicksUntilRespawn int
}

// TreasureChest guards loot behind an optionally-alive guard entity.
type TreasureChest struct {
	ID            ChestID
	Pos           vecgrid.Vector2
	ItemIDs       []string
	GuardID       *entity.ID
	Looted        bool
	RespawnTicks  int
	TicksUntilRespawn int
}

// Building is a contract-only structure placement (shops, halls) that
// Visit-state handlers resolve against; content is opaque.
type Building struct {
	ID   BuildingID
	Kind string
	Pos  vecgrid.Vector2
}

// Region is a Voronoi cell: a tile belongs to the region whose center has
// the smallest Manhattan distance to it (spec GLOSSARY).
type Region struct {
	ID       RegionID
	Center   vecgrid.Vector2
	Tier     int // difficulty tier
	Kind     string
}

// World is the authoritative, mutable simulation state. Only the loop
// thread may write to it (spec §5).
type World struct {
	Tick int64
	Seed int64

	Entities map[entity.ID]*entity.Entity
	Grid     *vecgrid.Grid
	Spatial  *spatial.Hash

	Camps     []vecgrid.Vector2
	Buildings map[BuildingID]*Building
	Resources map[NodeID]*ResourceNode
	Chests    map[ChestID]*TreasureChest
	Regions   []*Region

	GroundItems map[vecgrid.Vector2][]string

	nextEntityID entity.ID
	nextNodeID   NodeID
	nextChestID  ChestID
}

func New(seed int64, grid *vecgrid.Grid, cellSize int) *World {
	return &World{
		Seed:        seed,
		Entities:    make(map[entity.ID]*entity.Entity),
		Grid:        grid,
		Spatial:     spatial.New(cellSize),
		Buildings:   make(map[BuildingID]*Building),
		Resources:   make(map[NodeID]*ResourceNode),
		Chests:      make(map[ChestID]*TreasureChest),
		GroundItems: make(map[vecgrid.Vector2][]string),
	}
}

// AllocateEntityID returns the next unique entity ID, for use by spawn
// generators and world builders (spec §6: "Must allocate IDs via
// world.allocate_entity_id() to preserve uniqueness").
func (w *World) AllocateEntityID() entity.ID {
	w.nextEntityID++
	return w.nextEntityID
}

func (w *World) AllocateNodeID() NodeID {
	w.nextNodeID++
	return w.nextNodeID
}

func (w *World) AllocateChestID() ChestID {
	w.nextChestID++
	return w.nextChestID
}

// SeedNextEntityID advances the ID allocator past id, so a restored World
// never hands out an ID that collides with one loaded from persistence.
func (w *World) SeedNextEntityID(id entity.ID) {
	if id > w.nextEntityID {
		w.nextEntityID = id
	}
}

func (w *World) AddEntity(e *entity.Entity) {
	w.Entities[e.ID] = e
	w.Spatial.Insert(e.ID, e.Pos)
}

func (w *World) RemoveEntity(id entity.ID) {
	if e, ok := w.Entities[id]; ok {
		w.Spatial.Remove(id, e.Pos)
		delete(w.Entities, id)
	}
}

// MoveEntity updates an entity's position and the spatial index together.
func (w *World) MoveEntity(id entity.ID, newPos vecgrid.Vector2) {
	e, ok := w.Entities[id]
	if !ok {
		return
	}
	old := e.Pos
	e.Pos = newPos
	w.Spatial.Move(id, old, newPos)
}

func (w *World) DropItems(pos vecgrid.Vector2, itemIDs []string) {
	if len(itemIDs) == 0 {
		return
	}
	w.GroundItems[pos] = append(w.GroundItems[pos], itemIDs...)
}

// PickupItems removes and returns all ground items at pos.
func (w *World) PickupItems(pos vecgrid.Vector2) []string {
	items, ok := w.GroundItems[pos]
	if !ok {
		return nil
	}
	delete(w.GroundItems, pos)
	return items
}

func (w *World) AddResourceNode(n *ResourceNode) {
	w.Resources[n.ID] = n
}

// ResourceAt returns the resource node at pos, if any (linear scan, matching
// original_source/src/core/world_state.py's resource_at).
func (w *World) ResourceAt(pos vecgrid.Vector2) *ResourceNode {
	for _, n := range w.Resources {
		if n.Pos == pos {
			return n
		}
	}
	return nil
}

// ChestAt returns the treasure chest at pos, if any.
func (w *World) ChestAt(pos vecgrid.Vector2) *TreasureChest {
	for _, c := range w.Chests {
		if c.Pos == pos {
			return c
		}
	}
	return nil
}

// AliveNonSpawnerCount is used by the loop's phase-0 pre-check.
func (w *World) AliveNonSpawnerCount() int {
	n := 0
	for _, e := range w.Entities {
		if e.Alive() && e.Kind != "spawner" {
			n++
		}
	}
	return n
}

// RegionFor returns the region owning pos via nearest-center Voronoi query
// (spec §4.10 Environment / GLOSSARY).
func (w *World) RegionFor(pos vecgrid.Vector2) *Region {
	var best *Region
	bestDist := -1
	for _, r := range w.Regions {
		d := pos.Manhattan(r.Center)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}
