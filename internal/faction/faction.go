// Package faction is the engine's Faction Registry contract (spec §6),
// supplemented with a concrete default registry (SPEC_FULL.md §C.2) grounded
// on original_source/src/core/faction.py, so the engine and its tests have a
// real implementation to exercise rather than only an interface.
package faction

import "github.com/talgya/rowanengine/internal/vecgrid"

// Faction identifies an entity group. Extend this set to add new factions.
type Faction int32

const (
	HeroGuild Faction = iota
	GoblinHorde
	WolfPack
	BanditClan
	Undead
	OrcTribe
	CentaurHerd
	FrostKin
	Lizardfolk
	DemonHorde
)

// Relation is how two factions regard each other.
type Relation int32

const (
	Allied Relation = iota
	Neutral
	Hostile
)

// Territory describes what a faction considers home turf, and the penalty
// applied to intruders standing on it.
type Territory struct {
	Tile        vecgrid.Material
	AtkDebuff   float64
	DefDebuff   float64
	SpdDebuff   float64
	AlertRadius int
}

// Registry is the data-driven faction relationship + territory table.
type Registry struct {
	relations   map[[2]Faction]Relation
	territories map[Faction]Territory
	kinds       map[string]Faction
}

func NewRegistry() *Registry {
	return &Registry{
		relations:   make(map[[2]Faction]Relation),
		territories: make(map[Faction]Territory),
		kinds:       make(map[string]Faction),
	}
}

func (r *Registry) SetRelation(a, b Faction, rel Relation) {
	r.relations[[2]Faction{a, b}] = rel
	r.relations[[2]Faction{b, a}] = rel
}

func (r *Registry) SetTerritory(f Faction, t Territory) {
	r.territories[f] = t
}

func (r *Registry) RegisterKind(kind string, f Faction) {
	r.kinds[kind] = f
}

func (r *Registry) Relation(a, b Faction) Relation {
	if a == b {
		return Allied
	}
	if rel, ok := r.relations[[2]Faction{a, b}]; ok {
		return rel
	}
	return Neutral
}

func (r *Registry) IsHostile(a, b Faction) bool { return r.Relation(a, b) == Hostile }
func (r *Registry) IsAllied(a, b Faction) bool  { return r.Relation(a, b) == Allied }

func (r *Registry) TerritoryFor(f Faction) (Territory, bool) {
	t, ok := r.territories[f]
	return t, ok
}

func (r *Registry) FactionForKind(kind string) (Faction, bool) {
	f, ok := r.kinds[kind]
	return f, ok
}

func (r *Registry) OwnsTile(f Faction, mat vecgrid.Material) bool {
	t, ok := r.territories[f]
	return ok && t.Tile == mat
}

func (r *Registry) TileOwner(mat vecgrid.Material) (Faction, bool) {
	for f, t := range r.territories {
		if t.Tile == mat {
			return f, true
		}
	}
	return 0, false
}

func (r *Registry) IsHomeTerritory(f Faction, mat vecgrid.Material) bool {
	return r.OwnsTile(f, mat)
}

func (r *Registry) IsEnemyTerritory(f Faction, mat vecgrid.Material) bool {
	owner, ok := r.TileOwner(mat)
	if !ok {
		return false
	}
	return r.IsHostile(f, owner)
}

// Default builds the reference registry: Hero Guild against nine hostile
// factions, each owning a biome territory tile, carried over from
// original_source/src/core/faction.py's FactionRegistry.default().
func Default() *Registry {
	r := NewRegistry()

	hostileToHero := []Faction{
		GoblinHorde, WolfPack, BanditClan, Undead, OrcTribe,
		CentaurHerd, FrostKin, Lizardfolk, DemonHorde,
	}
	for _, f := range hostileToHero {
		r.SetRelation(HeroGuild, f, Hostile)
	}
	for i, a := range hostileToHero {
		for _, b := range hostileToHero[i+1:] {
			r.SetRelation(a, b, Hostile)
		}
	}
	r.SetRelation(GoblinHorde, OrcTribe, Neutral)

	r.SetTerritory(HeroGuild, Territory{Tile: vecgrid.Town, AtkDebuff: 0.6, DefDebuff: 0.6, SpdDebuff: 0.8, AlertRadius: 6})
	r.SetTerritory(GoblinHorde, Territory{Tile: vecgrid.Camp, AtkDebuff: 0.7, DefDebuff: 0.7, SpdDebuff: 0.85, AlertRadius: 6})
	r.SetTerritory(WolfPack, Territory{Tile: vecgrid.Forest, AtkDebuff: 0.8, DefDebuff: 0.8, SpdDebuff: 0.9, AlertRadius: 5})
	r.SetTerritory(BanditClan, Territory{Tile: vecgrid.Desert, AtkDebuff: 0.75, DefDebuff: 0.75, SpdDebuff: 0.85, AlertRadius: 6})
	r.SetTerritory(Undead, Territory{Tile: vecgrid.Swamp, AtkDebuff: 0.7, DefDebuff: 0.7, SpdDebuff: 0.8, AlertRadius: 7})
	r.SetTerritory(OrcTribe, Territory{Tile: vecgrid.Mountain, AtkDebuff: 0.75, DefDebuff: 0.75, SpdDebuff: 0.85, AlertRadius: 6})
	r.SetTerritory(CentaurHerd, Territory{Tile: vecgrid.Floor, AtkDebuff: 0.8, DefDebuff: 0.8, SpdDebuff: 0.9, AlertRadius: 8})
	r.SetTerritory(FrostKin, Territory{Tile: vecgrid.Mountain, AtkDebuff: 0.7, DefDebuff: 0.7, SpdDebuff: 0.8, AlertRadius: 6})
	r.SetTerritory(Lizardfolk, Territory{Tile: vecgrid.Swamp, AtkDebuff: 0.75, DefDebuff: 0.75, SpdDebuff: 0.85, AlertRadius: 5})
	r.SetTerritory(DemonHorde, Territory{Tile: vecgrid.Lava, AtkDebuff: 0.65, DefDebuff: 0.65, SpdDebuff: 0.75, AlertRadius: 7})

	r.RegisterKind("hero", HeroGuild)
	r.RegisterKind("goblin", GoblinHorde)
	r.RegisterKind("goblin_scout", GoblinHorde)
	r.RegisterKind("goblin_warrior", GoblinHorde)
	r.RegisterKind("goblin_chief", GoblinHorde)
	r.RegisterKind("wolf", WolfPack)
	r.RegisterKind("dire_wolf", WolfPack)
	r.RegisterKind("alpha_wolf", WolfPack)
	r.RegisterKind("bandit", BanditClan)
	r.RegisterKind("bandit_archer", BanditClan)
	r.RegisterKind("bandit_chief", BanditClan)
	r.RegisterKind("skeleton", Undead)
	r.RegisterKind("zombie", Undead)
	r.RegisterKind("lich", Undead)
	r.RegisterKind("orc", OrcTribe)
	r.RegisterKind("orc_warrior", OrcTribe)
	r.RegisterKind("orc_warlord", OrcTribe)
	r.RegisterKind("centaur", CentaurHerd)
	r.RegisterKind("frost_giant", FrostKin)
	r.RegisterKind("lizard", Lizardfolk)
	r.RegisterKind("imp", DemonHorde)
	r.RegisterKind("hellhound", DemonHorde)
	r.RegisterKind("demon_lord", DemonHorde)

	return r
}
