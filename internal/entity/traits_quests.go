package entity

// TraitType enumerates the trait pool, grounded on
// original_source/src/core/enums.py's TraitType (20 values) and
// traits.py's aggregate-utility pattern. Content (which traits an entity
// actually has) remains opaque per spec §6; only the type tags and the
// aggregation contract live in the core.
type TraitType int8

const (
	TraitBrave TraitType = iota
	TraitCowardly
	TraitGreedy
	TraitLoyal
	TraitAggressive
	TraitCautious
	TraitCurious
	TraitLazy
	TraitDiligent
	TraitVengeful
	TraitMerciful
	TraitStoic
	TraitImpulsive
	TraitFrugal
	TraitGenerous
	TraitProud
	TraitHumble
	TraitPacifist
	TraitBloodthirsty
	TraitWanderer
)

// TraitProfile is the opaque, read-only per-trait utility/stat modifier
// record a Trait registry supplies. The engine only ever sums these; it
// never defines what traits mean narratively.
type TraitProfile struct {
	GoalUtility map[string]float64 // goal name -> additive score modifier
	FleeBias    float64            // additive modifier to flee HP threshold
}

// TraitRegistry is the opaque content-table contract (spec §6).
type TraitRegistry interface {
	Get(t TraitType) (TraitProfile, bool)
}

type MapTraitRegistry map[TraitType]TraitProfile

func (m MapTraitRegistry) Get(t TraitType) (TraitProfile, bool) {
	p, ok := m[t]
	return p, ok
}

// AggregateTraitUtility sums the additive goal-utility modifier for a named
// goal across all of an entity's traits — grounded on
// original_source/src/ai/goals/scorers.py's _trait_utility helper.
func AggregateTraitUtility(traits []TraitType, reg TraitRegistry, goal string) float64 {
	total := 0.0
	if reg == nil {
		return total
	}
	for _, t := range traits {
		if p, ok := reg.Get(t); ok {
			total += p.GoalUtility[goal]
		}
	}
	return total
}

// AggregateFleeBias sums the flee-threshold modifier across traits.
func AggregateFleeBias(traits []TraitType, reg TraitRegistry) float64 {
	total := 0.0
	if reg == nil {
		return total
	}
	for _, t := range traits {
		if p, ok := reg.Get(t); ok {
			total += p.FleeBias
		}
	}
	return total
}

// QuestKind distinguishes the quest objective shape.
type QuestKind int8

const (
	QuestHunt QuestKind = iota
	QuestExplore
	QuestCraft
)

// Quest tracks a hero's in-progress objective.
type Quest struct {
	QuestID     string
	Kind        QuestKind
	TargetKind  string  // for HUNT: mob kind to match
	TargetPos   *struct{ X, Y int } // for EXPLORE
	Progress    int
	Required    int
	RewardGold  int
	RewardXP    int
	Complete    bool
}

func (q *Quest) AdvanceHunt(defeatedKind string) {
	if q.Complete || q.Kind != QuestHunt || defeatedKind != q.TargetKind {
		return
	}
	q.Progress++
	if q.Progress >= q.Required {
		q.Complete = true
	}
}

// AdvanceExplore completes an EXPLORE quest once the hero has reached its
// target position, per spec §4.10's Economy group.
func (q *Quest) AdvanceExplore() {
	if q.Complete || q.Kind != QuestExplore {
		return
	}
	q.Progress++
	if q.Progress >= q.Required {
		q.Complete = true
	}
}
