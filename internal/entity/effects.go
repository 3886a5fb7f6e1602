package entity

// EffectKind tags the semantic type of a StatusEffect, carried over from
// original_source/src/core/effects.py's EffectType enum.
type EffectKind int8

const (
	EffectBuff EffectKind = iota
	EffectDebuff
	EffectTerritoryBuff
	EffectTerritoryDebuff
	EffectPoison
	EffectRegen
	EffectStun
	EffectShield
	EffectOther
)

// StatusEffect is a tagged, timed stat modifier. RemainingTicks == -1 marks
// permanent-until-removed; an effect is Expired when RemainingTicks == 0.
type StatusEffect struct {
	Kind           EffectKind
	RemainingTicks int
	Source         string
	AtkMult        float64
	DefMult        float64
	SpdMult        float64
	CritMult       float64
	EvasionMult    float64
	HPPerTick      int
}

func (e StatusEffect) Expired() bool { return e.RemainingTicks == 0 }

// Tick decrements RemainingTicks (unless permanent).
func (e *StatusEffect) Tick() {
	if e.RemainingTicks > 0 {
		e.RemainingTicks--
	}
}

func (e StatusEffect) Copy() StatusEffect { return e }

// TerritoryDebuff builds the standard intrusion-penalty effect, grounded on
// original_source/src/core/effects.py's territory_debuff() factory.
func TerritoryDebuff(atkMult, defMult, spdMult float64, duration int, source string) StatusEffect {
	return StatusEffect{
		Kind: EffectTerritoryDebuff, RemainingTicks: duration, Source: source,
		AtkMult: atkMult, DefMult: defMult, SpdMult: spdMult, CritMult: 1, EvasionMult: 1,
	}
}

// TerritoryBuff builds the standard home-territory buff.
func TerritoryBuff(atkMult, defMult float64, duration int, source string) StatusEffect {
	return StatusEffect{
		Kind: EffectTerritoryBuff, RemainingTicks: duration, Source: source,
		AtkMult: atkMult, DefMult: defMult, SpdMult: 1, CritMult: 1, EvasionMult: 1,
	}
}

// SkillEffect converts an additive skill modifier into the StatusEffect's
// multiplicative representation, tagging it buff or debuff.
func SkillEffect(atkMod, defMod, spdMod float64, duration int, source string, isDebuff bool) StatusEffect {
	kind := EffectBuff
	if isDebuff {
		kind = EffectDebuff
	}
	return StatusEffect{
		Kind: kind, RemainingTicks: duration, Source: source,
		AtkMult: 1 + atkMod, DefMult: 1 + defMod, SpdMult: 1 + spdMod,
		CritMult: 1, EvasionMult: 1,
	}
}
