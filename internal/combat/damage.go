// Package combat holds the Damage Calculator registry contract and the
// combat-math helpers shared by the Conflict Resolver and the subsystem
// ticker (opportunity attacks, skill resolution), grounded on
// original_source/src/actions/combat.py.
package combat

import (
	"math"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/rng"
)

// Resolution is what a Damage Calculator returns for one damage type: the
// power/multiplier pair to use for attacker and defender, plus which
// training action the hit should feed.
type Resolution struct {
	AtkPower   float64
	DefPower   float64
	AtkMult    float64
	DefMult    float64
	TrainAttacker entity.TrainAction
	TrainDefender entity.TrainAction
}

// Calculator resolves (attacker, defender) into the power/multiplier inputs
// for the damage formula. Physical and magical must be registered; unknown
// types fall back to physical (spec §6).
type Calculator interface {
	Resolve(damageType entity.DamageType, attacker, defender *entity.Entity, items entity.ItemRegistry) Resolution
}

// DefaultCalculator implements the physical/magical split described in
// spec §4.8: physical → ATK/STR, magical → MATK/SPI.
type DefaultCalculator struct{}

func (DefaultCalculator) Resolve(damageType entity.DamageType, attacker, defender *entity.Entity, items entity.ItemRegistry) Resolution {
	switch damageType {
	case entity.DamageMagical:
		atkStrMult := 1.0
		if attacker.Attributes != nil {
			atkStrMult = 1 + attacker.Attributes.Spi*0.01
		}
		defVitMult := 1.0
		if defender.Attributes != nil {
			defVitMult = 1 + defender.Attributes.Spi*0.01
		}
		return Resolution{
			AtkPower: float64(attacker.EffectiveMatk()), DefPower: float64(defender.EffectiveMdef()),
			AtkMult: atkStrMult, DefMult: defVitMult,
			TrainAttacker: entity.TrainSkill, TrainDefender: entity.TrainDefenderAttack,
		}
	default:
		atkStrMult := 1.0
		if attacker.Attributes != nil {
			atkStrMult = 1 + attacker.Attributes.Str*0.01
		}
		defVitMult := 1.0
		if defender.Attributes != nil {
			defVitMult = 1 + defender.Attributes.Vit*0.01
		}
		return Resolution{
			AtkPower: float64(attacker.EffectiveAtk(items)), DefPower: float64(defender.EffectiveDef(items)),
			AtkMult: atkStrMult, DefMult: defVitMult,
			TrainAttacker: entity.TrainAttackerAttack, TrainDefender: entity.TrainDefenderAttack,
		}
	}
}

// Outcome is the full result of one resolved attack.
type Outcome struct {
	Evaded   bool
	Crit     bool
	Damage   int
	Defender *entity.Entity
	Killed   bool
}

// Resolve runs the full spec §4.8 ATTACK damage sequence: evasion roll,
// base damage with attribute multipliers and variance, crit roll.
//
// coverEvasionBonus is an additive evasion bump the caller applies when the
// defender is orthogonally adjacent to a wall and the attack is ranged
// (spec §9 open question #3); pass 0 for melee or uncovered defenders.
func Resolve(
	source rng.Source, tick int64,
	attacker, defender *entity.Entity,
	res Resolution,
	damageVariance float64,
	coverEvasionBonus float64,
	items entity.ItemRegistry,
) Outcome {
	effEvasion := defender.EffectiveEvasion(items) + coverEvasionBonus - float64(attacker.Stats.Luck)*0.002

	evaded := source.NextBool(rng.Combat, uint64(defender.ID), tick+3, clamp01(effEvasion))
	if evaded {
		return Outcome{Evaded: true, Defender: defender}
	}

	raw := res.AtkPower*res.AtkMult - res.DefPower*res.DefMult/2
	dmg := math.Max(raw, 1)

	variance := source.NextFloat(rng.Combat, uint64(attacker.ID), tick)
	dmg *= 1 + damageVariance*(variance-0.5)

	critChance := math.Min(attacker.Stats.CritRate+float64(attacker.Stats.Luck)*0.003, 0.8)
	crit := source.NextBool(rng.Combat, uint64(attacker.ID), tick+1, critChance)
	if crit {
		dmg *= attacker.Stats.CritDmg
	}

	final := int(math.Max(dmg, 1))
	defender.Stats.HP -= final
	killed := defender.Stats.HP <= 0
	if killed {
		defender.Stats.HP = 0
	}

	return Outcome{Crit: crit, Damage: final, Defender: defender, Killed: killed}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// XP computes kill reward per spec §4.8: base × defender level × (1 + 0.5 ×
// tier) × an xp multiplier derived from the attacker's INT/WIS, since XP
// rewards scale with the killer's learning aptitude.
func XP(base int, defenderLevel, defenderTier int, xpMultiplier float64) int {
	if defenderLevel < 1 {
		defenderLevel = 1
	}
	return int(float64(base) * float64(defenderLevel) * (1 + float64(defenderTier)*0.5) * xpMultiplier)
}

// OpportunityDamage is the simplified, no-crit no-evasion free hit dealt on
// disengage (spec §4.9 phase 3 step 3).
func OpportunityDamage(attackerAtk, moverDef int, mult float64) int {
	d := int(float64(attackerAtk)*mult) - moverDef/2
	if d < 1 {
		d = 1
	}
	return d
}

// ThreatGain returns the threat_table delta for one hit (spec §4.8 threat
// formula): damage × threat_damage_mult, × tank-class multiplier if the
// attacker's class is a tank.
func ThreatGain(damage int, threatDamageMult, tankClassMult float64, attackerIsTank bool) float64 {
	v := float64(damage) * threatDamageMult
	if attackerIsTank {
		v *= tankClassMult
	}
	return v
}
