// Package entity is the core data model: Stats, Attributes, StatusEffect,
// SkillInstance, Inventory, and Entity itself, grounded on
// original_source/src/core/models.py.
package entity

import (
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

// ID is a typed entity identifier (spec §9: typed IDs prevent accidental
// mixing with NodeID/ChestID/RegionID/BuildingID).
type ID uint64

// EntityMemoryRecord is one remembered sighting of another entity, stored in
// Entity.EntityMemory.
type EntityMemoryRecord struct {
	ID      ID
	X, Y    int
	Kind    string
	HP      int
	MaxHP   int
	Atk     int
	Level   int
	Tick    int64
	Visible bool
}

// Entity is one actor in the world: hero, mob, or NPC.
type Entity struct {
	ID       ID
	Kind     string
	Pos      vecgrid.Vector2
	Stats    Stats
	AIState  AIState
	Faction  faction.Faction

	NextActAt float64 // fractional tick coordinate

	Memory map[ID]vecgrid.Vector2 // last-known hostile positions

	HomePos *vecgrid.Vector2
	Tier    int

	Inventory *Inventory

	TerrainMemory map[vecgrid.Vector2]vecgrid.Material
	EntityMemory  []EntityMemoryRecord

	Goals []string

	Effects []StatusEffect

	LootProgress int

	KnownRecipes []string
	CraftTarget  string

	Attributes     *Attributes
	AttributeCaps  *AttributeCaps

	HeroClass    HeroClass
	Skills       map[string]*SkillInstance
	ClassMastery float64

	Quests []*Quest
	Traits []TraitType

	ThreatTable map[ID]float64

	EngagedTicks int
	ChaseTicks   int

	CurrentRegionID int64
	CombatTargetID  *ID

	LastReason string

	LeashRadius int
	IsHero      bool
}

func (e *Entity) Alive() bool { return e.Stats.Alive() }

// effectMult multiplies a per-effect multiplier field across all active
// effects, grounded on models.py's Entity._effect_mult.
func (e *Entity) effectMult(field func(StatusEffect) float64) float64 {
	m := 1.0
	for _, eff := range e.Effects {
		m *= field(eff)
	}
	return m
}

func (e *Entity) HasEffect(kind EffectKind) bool {
	for _, eff := range e.Effects {
		if eff.Kind == kind {
			return true
		}
	}
	return false
}

// RemoveEffectsByKind strips every effect of the given kind (used when
// reapplying a fresh territory debuff).
func (e *Entity) RemoveEffectsByKind(kind EffectKind) {
	kept := e.Effects[:0]
	for _, eff := range e.Effects {
		if eff.Kind != kind {
			kept = append(kept, eff)
		}
	}
	e.Effects = kept
}

func (e *Entity) HasTrait(t TraitType) bool {
	for _, tt := range e.Traits {
		if tt == t {
			return true
		}
	}
	return false
}

// EffectiveAtk returns base ATK plus equipment bonus, times the aggregated
// ATK effect multiplier.
func (e *Entity) EffectiveAtk(items ItemRegistry) int {
	bonus := 0.0
	if e.Inventory != nil {
		bonus = e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return float64(t.AtkBonus) })
	}
	base := float64(e.Stats.Atk) + bonus
	return int(base * e.effectMult(func(s StatusEffect) float64 { return s.AtkMult }))
}

func (e *Entity) EffectiveDef(items ItemRegistry) int {
	bonus := 0.0
	if e.Inventory != nil {
		bonus = e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return float64(t.DefBonus) })
	}
	base := float64(e.Stats.Def) + bonus
	return int(base * e.effectMult(func(s StatusEffect) float64 { return s.DefMult }))
}

func (e *Entity) EffectiveMatk() int {
	return int(float64(e.Stats.Matk) * e.effectMult(func(s StatusEffect) float64 { return s.AtkMult }))
}

func (e *Entity) EffectiveMdef() int {
	return int(float64(e.Stats.Mdef) * e.effectMult(func(s StatusEffect) float64 { return s.DefMult }))
}

func (e *Entity) EffectiveSpd(items ItemRegistry) float64 {
	bonus := 0.0
	if e.Inventory != nil {
		bonus = e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return float64(t.SpdBonus) })
	}
	spd := (float64(e.Stats.Spd) + bonus) * e.effectMult(func(s StatusEffect) float64 { return s.SpdMult })
	if spd < 1 {
		spd = 1
	}
	return spd
}

func (e *Entity) EffectiveCritRate(items ItemRegistry) float64 {
	bonus := 0.0
	if e.Inventory != nil {
		bonus = e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return t.CritRateBonus })
	}
	return (e.Stats.CritRate + bonus) * e.effectMult(func(s StatusEffect) float64 { return s.CritMult })
}

// EffectiveEvasion is capped at 0.75, per original_source/src/core/models.py.
func (e *Entity) EffectiveEvasion(items ItemRegistry) float64 {
	bonus := 0.0
	if e.Inventory != nil {
		bonus = e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return t.EvasionBonus })
	}
	ev := (e.Stats.Evasion + bonus) * e.effectMult(func(s StatusEffect) float64 { return s.EvasionMult })
	if ev > 0.75 {
		ev = 0.75
	}
	return ev
}

func (e *Entity) EffectiveMaxHP(items ItemRegistry) int {
	bonus := 0
	if e.Inventory != nil {
		bonus = int(e.Inventory.EquipmentBonus(items, func(t ItemTemplate) float64 { return float64(t.MaxHPBonus) }))
	}
	return e.Stats.MaxHP + bonus
}

func (e *Entity) ElementalVulnerability(el Element) float64 {
	return e.Stats.ElementalVulnerability(el)
}

// Copy returns a deep copy of the entity — the unit of work for the
// Snapshot producer (spec §4.4).
func (e *Entity) Copy() *Entity {
	cp := *e
	cp.Stats = e.Stats.Copy()

	if e.HomePos != nil {
		hp := *e.HomePos
		cp.HomePos = &hp
	}
	cp.Inventory = e.Inventory.Copy()

	cp.Memory = make(map[ID]vecgrid.Vector2, len(e.Memory))
	for k, v := range e.Memory {
		cp.Memory[k] = v
	}

	cp.TerrainMemory = make(map[vecgrid.Vector2]vecgrid.Material, len(e.TerrainMemory))
	for k, v := range e.TerrainMemory {
		cp.TerrainMemory[k] = v
	}

	cp.EntityMemory = append([]EntityMemoryRecord(nil), e.EntityMemory...)
	cp.Goals = append([]string(nil), e.Goals...)
	cp.Effects = append([]StatusEffect(nil), e.Effects...)
	cp.KnownRecipes = append([]string(nil), e.KnownRecipes...)
	cp.Traits = append([]TraitType(nil), e.Traits...)

	if e.Attributes != nil {
		a := *e.Attributes
		cp.Attributes = &a
	}
	if e.AttributeCaps != nil {
		c := *e.AttributeCaps
		cp.AttributeCaps = &c
	}

	cp.Skills = make(map[string]*SkillInstance, len(e.Skills))
	for k, v := range e.Skills {
		sv := *v
		cp.Skills[k] = &sv
	}

	cp.Quests = make([]*Quest, len(e.Quests))
	for i, q := range e.Quests {
		qv := *q
		cp.Quests[i] = &qv
	}

	cp.ThreatTable = make(map[ID]float64, len(e.ThreatTable))
	for k, v := range e.ThreatTable {
		cp.ThreatTable[k] = v
	}

	if e.CombatTargetID != nil {
		id := *e.CombatTargetID
		cp.CombatTargetID = &id
	}

	return &cp
}
