// Package resolver is the Conflict Resolver: deterministic validation and
// serial application of AI proposals, grounded on
// original_source/src/engine/conflict_resolver.py and
// src/actions/{move,rest,combat}.py.
package resolver

import (
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/combat"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// Applied pairs a successfully-validated proposal with whatever outcome
// data downstream phases (opportunity attacks, deferred actions) need.
type Applied struct {
	Proposal action.Proposal
	Outcome  combat.Outcome // zero value unless Proposal.Verb == VerbAttack
}

type Resolver struct {
	cfg   config.Config
	rng   rng.Source
	calc  combat.Calculator
	items entity.ItemRegistry
	log   *slog.Logger
}

func New(cfg config.Config, source rng.Source, calc combat.Calculator, items entity.ItemRegistry, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{cfg: cfg, rng: source, calc: calc, items: items, log: log}
}

// sortKey is (verb enum value, next_act_at, entity id) — spec §4.8's total
// deterministic ordering.
func sortKey(w *world.World, p action.Proposal) (int32, float64, entity.ID) {
	nextActAt := math.MaxFloat64
	if e, ok := w.Entities[p.ActorID]; ok {
		nextActAt = e.NextActAt
	}
	return int32(p.Verb), nextActAt, p.ActorID
}

// Resolve sorts proposals by (verb, next_act_at, id) and applies each
// serially against w, returning the ones that were validated/applied.
func (r *Resolver) Resolve(proposals []action.Proposal, w *world.World) []Applied {
	sorted := make([]action.Proposal, len(proposals))
	copy(sorted, proposals)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, ti, ii := sortKey(w, sorted[i])
		vj, tj, ij := sortKey(w, sorted[j])
		if vi != vj {
			return vi < vj
		}
		if ti != tj {
			return ti < tj
		}
		return ii < ij
	})

	occupied := buildOccupied(w)

	var applied []Applied
	for _, p := range sorted {
		out, ok := r.applyOne(p, w, occupied)
		if !ok {
			r.log.Debug("proposal rejected", "actor", p.ActorID, "verb", p.Verb, "reason", p.Reason)
			continue
		}
		applied = append(applied, Applied{Proposal: p, Outcome: out})
	}
	return applied
}

func buildOccupied(w *world.World) map[vecgrid.Vector2]entity.ID {
	occ := make(map[vecgrid.Vector2]entity.ID, len(w.Entities))
	for id, e := range w.Entities {
		if e.Alive() {
			occ[e.Pos] = id
		}
	}
	return occ
}

func (r *Resolver) applyOne(p action.Proposal, w *world.World, occupied map[vecgrid.Vector2]entity.ID) (combat.Outcome, bool) {
	actor, ok := w.Entities[p.ActorID]
	if !ok || !actor.Alive() {
		return combat.Outcome{}, false
	}

	switch p.Verb {
	case action.VerbRest:
		return combat.Outcome{}, r.applyRest(actor)
	case action.VerbMove:
		return combat.Outcome{}, r.applyMove(actor, p, w, occupied)
	case action.VerbAttack:
		return r.applyAttack(actor, p, w)
	case action.VerbUseItem, action.VerbLoot, action.VerbHarvest, action.VerbUseSkill:
		// Validated here (actor alive, checked above); fully applied by the
		// loop's deferred-action step (spec §4.9 phase 3 step 6).
		return combat.Outcome{}, true
	default:
		return combat.Outcome{}, false
	}
}

func (r *Resolver) applyRest(actor *entity.Entity) bool {
	if actor.Stats.HP < actor.Stats.MaxHP {
		actor.Stats.HP++
	}
	spd := actor.EffectiveSpd(r.items)
	delay := combat.SpeedDelay(1.0, spd, float64(combat.WeightRest), actor.Stats.InteractionSpeedMult)
	actor.NextActAt += delay
	return true
}

func (r *Resolver) applyMove(actor *entity.Entity, p action.Proposal, w *world.World, occupied map[vecgrid.Vector2]entity.ID) bool {
	if p.Target.Pos == nil {
		return false
	}
	target := *p.Target.Pos
	if !w.Grid.IsWalkable(target) {
		return false
	}
	if occID, taken := occupied[target]; taken && occID != actor.ID {
		return false
	}

	old := actor.Pos
	delete(occupied, old)
	occupied[target] = actor.ID
	w.MoveEntity(actor.ID, target)

	spd := actor.EffectiveSpd(r.items)
	if w.Grid.IsRoad(target) {
		spd *= combat.RoadSpeedBonus
	}
	delay := combat.SpeedDelay(1.0, spd, float64(combat.WeightMove), actor.Stats.InteractionSpeedMult)
	if actor.EngagedTicks >= 2 {
		delay *= 2
		actor.EngagedTicks = 0
	}
	actor.NextActAt += delay

	actor.Stats.Stamina--
	if actor.Stats.Stamina < 0 {
		actor.Stats.Stamina = 0
	}
	if actor.Attributes != nil && actor.AttributeCaps != nil {
		entity.TrainAttributes(actor.Attributes, *actor.AttributeCaps, entity.TrainMove)
	}
	return true
}

func (r *Resolver) applyAttack(actor *entity.Entity, p action.Proposal, w *world.World) (combat.Outcome, bool) {
	if p.Target.EntityID == nil {
		return combat.Outcome{}, false
	}
	defender, ok := w.Entities[*p.Target.EntityID]
	if !ok || !defender.Alive() {
		return combat.Outcome{}, false
	}
	if actor.Pos.Manhattan(defender.Pos) > 1 {
		return combat.Outcome{}, false
	}

	res := r.calc.Resolve(entity.DamagePhysical, actor, defender, r.items)
	coverBonus := 0.0
	if w.Grid.HasAdjacentWall(defender.Pos) {
		coverBonus = r.cfg.CoverEvasionBonus
	}
	out := combat.Resolve(r.rng, w.Tick, actor, defender, res, r.cfg.DamageVariance, coverBonus, r.items)

	actor.Stats.Stamina -= 3
	if actor.Stats.Stamina < 0 {
		actor.Stats.Stamina = 0
	}
	if actor.Attributes != nil && actor.AttributeCaps != nil {
		entity.TrainAttributes(actor.Attributes, *actor.AttributeCaps, entity.TrainAttackerAttack)
	}
	if defender.Attributes != nil && defender.AttributeCaps != nil {
		entity.TrainAttributes(defender.Attributes, *defender.AttributeCaps, entity.TrainDefenderAttack)
	}

	if !out.Evaded {
		gain := combat.ThreatGain(out.Damage, r.cfg.ThreatDamageMult, r.cfg.ThreatTankClassMult, actor.HeroClass.IsTank())
		if defender.ThreatTable == nil {
			defender.ThreatTable = make(map[entity.ID]float64)
		}
		defender.ThreatTable[actor.ID] += gain
	}

	if out.Killed {
		r.awardKill(actor, defender)
	}

	spd := actor.EffectiveSpd(r.items)
	delay := combat.SpeedDelay(1.0, spd, float64(combat.WeightAttack), actor.Stats.InteractionSpeedMult)
	actor.NextActAt += delay

	return out, true
}

func (r *Resolver) awardKill(attacker, defender *entity.Entity) {
	xpMult := 1.0
	if attacker.Attributes != nil {
		xpMult = entity.DeriveXPMult(*attacker.Attributes)
	}
	xp := combat.XP(r.cfg.XPPerKillBase, defender.Stats.Level, defender.Tier, xpMult)
	attacker.Stats.XP += xp
	attacker.Stats.Gold += defender.Stats.Gold
	defender.Stats.Gold = 0

	for _, q := range attacker.Quests {
		q.AdvanceHunt(defender.Kind)
	}
}
