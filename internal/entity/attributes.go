package entity

// Attributes holds the nine primary attribute values. Each attribute has an
// integer Base and a fractional Accumulator in [0, 1) that training actions
// feed; when it crosses 1.0 the integer base increases (capped) and the
// accumulator is reduced by the integer part.
//
// The original source (original_source/src/core/attributes.py) implements
// only six of these (STR, AGI, VIT, INT, WIS, END); spec.md §3 names nine.
// SPI, PER, and CHA below are this repo's extension of that dataclass to
// match spec.md, documented in DESIGN.md under "Open Question: attribute
// count".
type Attributes struct {
	Str, StrAcc float64
	Agi, AgiAcc float64
	Vit, VitAcc float64
	Int, IntAcc float64
	Spi, SpiAcc float64
	Wis, WisAcc float64
	End, EndAcc float64
	Per, PerAcc float64
	Cha, ChaAcc float64
}

// AttributeCaps mirrors Attributes with the trainable ceiling per attribute.
type AttributeCaps struct {
	Str, Agi, Vit, Int, Spi, Wis, End, Per, Cha float64
}

func DefaultAttributeCaps() AttributeCaps {
	return AttributeCaps{Str: 50, Agi: 50, Vit: 50, Int: 50, Spi: 50, Wis: 50, End: 50, Per: 50, Cha: 50}
}

// TrainAction names the kind of action that trains attributes. The small
// fractional accumulator increments each kind applies (in TrainAttributes)
// are carried over from original_source/src/core/attributes.py's
// TRAIN_RATES table.
type TrainAction int8

const (
	TrainMove TrainAction = iota
	TrainAttackerAttack
	TrainDefenderAttack
	TrainRest
	TrainHarvest
	TrainLoot
	TrainSkill
)

// TrainAttributes applies the fractional-accumulator-overflow mechanic for
// one training action, capped by caps.
func TrainAttributes(a *Attributes, caps AttributeCaps, action TrainAction) {
	switch action {
	case TrainMove:
		applyTrain(&a.Agi, &a.AgiAcc, caps.Agi, 0.01)
		applyTrain(&a.End, &a.EndAcc, caps.End, 0.006)
	case TrainAttackerAttack:
		applyTrain(&a.Str, &a.StrAcc, caps.Str, 0.015)
		applyTrain(&a.Agi, &a.AgiAcc, caps.Agi, 0.008)
	case TrainDefenderAttack:
		applyTrain(&a.Vit, &a.VitAcc, caps.Vit, 0.015)
		applyTrain(&a.End, &a.EndAcc, caps.End, 0.008)
	case TrainRest:
		applyTrain(&a.End, &a.EndAcc, caps.End, 0.01)
		applyTrain(&a.Wis, &a.WisAcc, caps.Wis, 0.004)
	case TrainHarvest:
		applyTrain(&a.Str, &a.StrAcc, caps.Str, 0.008)
		applyTrain(&a.End, &a.EndAcc, caps.End, 0.012)
	case TrainLoot:
		applyTrain(&a.Per, &a.PerAcc, caps.Per, 0.01)
	case TrainSkill:
		applyTrain(&a.Int, &a.IntAcc, caps.Int, 0.012)
		applyTrain(&a.Spi, &a.SpiAcc, caps.Spi, 0.012)
	}
}

func applyTrain(base, acc *float64, cap float64, rate float64) {
	if *base >= cap {
		return
	}
	*acc += rate
	for *acc >= 1.0 {
		*acc -= 1.0
		if *base < cap {
			*base++
		}
	}
}

// LevelUpAttributes applies the level-up procedure: each attribute's cap
// rises by 5 and its base by 2, then the base is reclamped to the new cap.
func LevelUpAttributes(a *Attributes, caps *AttributeCaps) {
	bump := func(base *float64, cap *float64) {
		*cap += 5
		*base += 2
		if *base > *cap {
			*base = *cap
		}
	}
	bump(&a.Str, &caps.Str)
	bump(&a.Agi, &caps.Agi)
	bump(&a.Vit, &caps.Vit)
	bump(&a.Int, &caps.Int)
	bump(&a.Spi, &caps.Spi)
	bump(&a.Wis, &caps.Wis)
	bump(&a.End, &caps.End)
	bump(&a.Per, &caps.Per)
	bump(&a.Cha, &caps.Cha)
}

// Derived-stat formulas. STR/AGI/VIT/INT/WIS/END formulas are carried over
// from original_source/src/core/attributes.py; SPI/PER/CHA formulas are
// this repo's extension by direct analogy (SPI parallels INT for magical
// power, PER parallels AGI for perception/vision, CHA parallels WIS for
// trade-facing multipliers) — see DESIGN.md.

func DeriveMaxHP(base float64, a Attributes) float64   { return base + a.Vit*2 + a.End*0.5 }
func DeriveAtk(base float64, a Attributes) float64      { return base + a.Str*0.5 }
func DeriveMatk(base float64, a Attributes) float64     { return base + a.Spi*0.5 + a.Int*0.2 }
func DeriveDef(base float64, a Attributes) float64      { return base + a.Vit*0.3 }
func DeriveMdef(base float64, a Attributes) float64     { return base + a.Spi*0.3 }
func DeriveSpd(base float64, a Attributes) float64      { return base + a.Agi*0.4 }
func DeriveCritRate(base float64, a Attributes) float64 { return base + a.Agi*0.004 }
func DeriveEvasion(base float64, a Attributes) float64  { return base + a.Agi*0.003 + a.Per*0.002 }
func DeriveLuck(base float64, a Attributes) float64     { return base + a.Wis*0.3 }
func DeriveStamina(base float64, a Attributes) float64  { return base + a.End*2 }
func DeriveXPMult(a Attributes) float64                 { return 1 + a.Int*0.01 + a.Wis*0.005 }
func DeriveVisionBonus(a Attributes) float64             { return a.Per * 0.05 }
func DeriveTradeMult(a Attributes) float64               { return 1 + a.Cha*0.01 }
