// Package perception is the stateless read-only query layer over a
// snapshot: vision, faction-aware target selection, direction helpers, tile
// queries, and memory lookups, grounded on
// original_source/src/ai/perception.py. Every function here takes an
// immutable *snapshot.Snapshot and returns a value — none of them mutate
// anything, so goal scorers and state handlers can call them freely from
// worker goroutines.
package perception

import (
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/snapshot"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

// VisibleEntities returns every other living entity within Manhattan
// distance visionRange of actor.
func VisibleEntities(actor *entity.Entity, snap *snapshot.Snapshot, visionRange int) []*entity.Entity {
	var out []*entity.Entity
	for id, e := range snap.Entities {
		if id == actor.ID || !e.Alive() {
			continue
		}
		if actor.Pos.Manhattan(e.Pos) <= visionRange {
			out = append(out, e)
		}
	}
	return out
}

// NearestEnemy returns the closest hostile entity in visible, tie-broken by
// lowest ID. reg may be nil, in which case hostility falls back to simple
// faction inequality.
func NearestEnemy(actor *entity.Entity, visible []*entity.Entity, reg *faction.Registry) *entity.Entity {
	var best *entity.Entity
	bestDist := 0
	for _, e := range visible {
		if !e.Alive() {
			continue
		}
		hostile := e.Faction != actor.Faction
		if reg != nil {
			hostile = reg.IsHostile(actor.Faction, e.Faction)
		}
		if !hostile {
			continue
		}
		d := actor.Pos.Manhattan(e.Pos)
		if best == nil || d < bestDist || (d == bestDist && e.ID < best.ID) {
			best, bestDist = e, d
		}
	}
	return best
}

// NearestAlly returns the closest allied entity (excluding actor itself).
func NearestAlly(actor *entity.Entity, visible []*entity.Entity, reg *faction.Registry) *entity.Entity {
	var best *entity.Entity
	bestDist := 0
	for _, e := range visible {
		if !e.Alive() || e.ID == actor.ID {
			continue
		}
		allied := e.Faction == actor.Faction
		if reg != nil {
			allied = reg.IsAllied(actor.Faction, e.Faction)
		}
		if !allied {
			continue
		}
		d := actor.Pos.Manhattan(e.Pos)
		if best == nil || d < bestDist || (d == bestDist && e.ID < best.ID) {
			best, bestDist = e, d
		}
	}
	return best
}

// CountNearbyAllies counts visible allies, excluding actor.
func CountNearbyAllies(actor *entity.Entity, visible []*entity.Entity, reg *faction.Registry) int {
	n := 0
	for _, e := range visible {
		if !e.Alive() || e.ID == actor.ID {
			continue
		}
		allied := e.Faction == actor.Faction
		if reg != nil {
			allied = reg.IsAllied(actor.Faction, e.Faction)
		}
		if allied {
			n++
		}
	}
	return n
}

// DirectionAwayFrom returns a unit step moving origin away from threat,
// preferring the axis with the larger absolute delta.
func DirectionAwayFrom(origin, threat vecgrid.Vector2) vecgrid.Vector2 {
	dx := origin.X - threat.X
	dy := origin.Y - threat.Y
	if abs(dx) >= abs(dy) {
		return vecgrid.Vector2{X: sign(dx, 1), Y: 0}
	}
	return vecgrid.Vector2{X: 0, Y: sign(dy, 1)}
}

// DirectionToward returns a unit step moving origin toward target.
func DirectionToward(origin, target vecgrid.Vector2) vecgrid.Vector2 {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	if dx == 0 && dy == 0 {
		return vecgrid.Vector2{}
	}
	if abs(dx) >= abs(dy) {
		return vecgrid.Vector2{X: sign(dx, 0), Y: 0}
	}
	return vecgrid.Vector2{X: 0, Y: sign(dy, 0)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// sign returns 1 if v > 0 or (v == 0 and zeroIsPositive != 0), else -1.
// Mirrors the Python "1 if dx >= 0 else -1" / "1 if dx > 0 else -1" split
// between away-from (>=) and toward (>) comparisons.
func sign(v int, zeroIsPositive int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	if zeroIsPositive != 0 {
		return 1
	}
	return -1
}

func IsInTown(actor *entity.Entity, snap *snapshot.Snapshot) bool      { return snap.Grid.IsTown(actor.Pos) }
func IsInSanctuary(actor *entity.Entity, snap *snapshot.Snapshot) bool { return snap.Grid.IsSanctuary(actor.Pos) }
func IsInCamp(actor *entity.Entity, snap *snapshot.Snapshot) bool      { return snap.Grid.IsCamp(actor.Pos) }

func IsOnHomeTerritory(actor *entity.Entity, snap *snapshot.Snapshot, reg *faction.Registry) bool {
	return reg.IsHomeTerritory(actor.Faction, snap.Grid.Get(actor.Pos))
}

func IsOnEnemyTerritory(actor *entity.Entity, snap *snapshot.Snapshot, reg *faction.Registry) bool {
	return reg.IsEnemyTerritory(actor.Faction, snap.Grid.Get(actor.Pos))
}

// GroundLootNearby returns the nearest non-empty ground-item pile within
// radius tiles, or (zero, false). Ties are broken by lowest (X, Y), matching
// NearestEnemy/NearestAlly's lowest-ID tie-break, since snap.GroundItems is a
// map and iteration order is not otherwise deterministic.
func GroundLootNearby(actor *entity.Entity, snap *snapshot.Snapshot, radius int) (vecgrid.Vector2, bool) {
	var best vecgrid.Vector2
	found := false
	bestDist := radius + 1
	for pos, items := range snap.GroundItems {
		if len(items) == 0 {
			continue
		}
		d := actor.Pos.Manhattan(pos)
		if d > radius {
			continue
		}
		if !found || d < bestDist || (d == bestDist && (pos.X < best.X || (pos.X == best.X && pos.Y < best.Y))) {
			bestDist = d
			best = pos
			found = true
		}
	}
	return best, found
}

// FindFrontierTarget looks for a walkable, unexplored tile adjacent to one
// the actor has already explored, biased by rngVal so entities with
// overlapping terrain memory don't all head for the same tile.
func FindFrontierTarget(actor *entity.Entity, snap *snapshot.Snapshot, rngVal int) (vecgrid.Vector2, bool) {
	explored := actor.TerrainMemory
	grid := snap.Grid

	var frontier []vecgrid.Vector2
	checked := make(map[vecgrid.Vector2]struct{})
	for pos := range explored {
		for _, off := range vecgrid.DirectionOffsets {
			cand := pos.Add(off)
			if _, seen := checked[cand]; seen {
				continue
			}
			if _, exploredAlready := explored[cand]; exploredAlready {
				continue
			}
			checked[cand] = struct{}{}
			if grid.InBounds(cand) && grid.IsWalkable(cand) {
				frontier = append(frontier, cand)
			}
		}
	}
	if len(frontier) == 0 {
		return vecgrid.Vector2{}, false
	}

	sortByDistance(frontier, actor.Pos)
	poolSize := len(frontier)
	if poolSize > 8 {
		poolSize = 8
	}
	pool := frontier[:poolSize]
	idx := rngVal % len(pool)
	if idx < 0 {
		idx += len(pool)
	}
	return pool[idx], true
}

// sortByDistance is a tiny insertion sort — frontier pools are small
// (never more than the actor's whole explored-tile perimeter) so this
// avoids pulling in sort.Slice for a handful of elements.
func sortByDistance(pts []vecgrid.Vector2, origin vecgrid.Vector2) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && origin.Manhattan(pts[j]) < origin.Manhattan(pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

// RememberedEnemyStrength returns the actor's memory record for targetID,
// if any.
func RememberedEnemyStrength(actor *entity.Entity, targetID entity.ID) (entity.EntityMemoryRecord, bool) {
	for _, em := range actor.EntityMemory {
		if em.ID == targetID {
			return em, true
		}
	}
	return entity.EntityMemoryRecord{}, false
}

// StrongestRememberedEnemy returns the remembered enemy with the highest
// recorded ATK.
func StrongestRememberedEnemy(actor *entity.Entity) (entity.EntityMemoryRecord, bool) {
	var best entity.EntityMemoryRecord
	found := false
	for _, em := range actor.EntityMemory {
		if em.Atk <= 0 {
			continue
		}
		if !found || em.Atk > best.Atk {
			best = em
			found = true
		}
	}
	return best, found
}

// NearestCamp returns the closest camp center recorded on the snapshot.
func NearestCamp(actor *entity.Entity, snap *snapshot.Snapshot) (vecgrid.Vector2, bool) {
	if len(snap.Camps) == 0 {
		return vecgrid.Vector2{}, false
	}
	best := snap.Camps[0]
	bestDist := actor.Pos.Manhattan(best)
	for _, c := range snap.Camps[1:] {
		d := actor.Pos.Manhattan(c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, true
}
