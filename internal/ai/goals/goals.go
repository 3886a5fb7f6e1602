// Package goals implements the Goal Evaluator: nine independent scorers
// that rate how desirable each high-level goal is for an entity this tick,
// and the weighted-random selection procedure that turns the ranked list
// into a single target AIState. Grounded on
// original_source/src/ai/goals/{base,scorers,registry}.py.
package goals

import (
	"github.com/talgya/rowanengine/internal/ai/perception"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/snapshot"
)

// Context bundles everything a scorer needs to read. It is built fresh per
// decision and never mutated by scorers.
type Context struct {
	Actor    *entity.Entity
	Snapshot *snapshot.Snapshot
	Config   config.Config
	Factions *faction.Registry
	Traits   entity.TraitRegistry
	Items    entity.ItemRegistry

	visible      []*entity.Entity
	visibleReady bool
	enemy        *entity.Entity
	enemyReady   bool
}

func NewContext(actor *entity.Entity, snap *snapshot.Snapshot, cfg config.Config, factions *faction.Registry, traits entity.TraitRegistry, items entity.ItemRegistry) *Context {
	return &Context{Actor: actor, Snapshot: snap, Config: cfg, Factions: factions, Traits: traits, Items: items}
}

func (c *Context) visibleEntities() []*entity.Entity {
	if !c.visibleReady {
		c.visible = perception.VisibleEntities(c.Actor, c.Snapshot, c.Config.VisionRange)
		c.visibleReady = true
	}
	return c.visible
}

// NearestEnemy is memoized per-context since several scorers ask for it.
func (c *Context) NearestEnemy() *entity.Entity {
	if !c.enemyReady {
		c.enemy = perception.NearestEnemy(c.Actor, c.visibleEntities(), c.Factions)
		c.enemyReady = true
	}
	return c.enemy
}

func (c *Context) isHero() bool { return c.Actor.Faction == faction.HeroGuild }

func (c *Context) isOnHomeTerritory() bool {
	return perception.IsOnHomeTerritory(c.Actor, c.Snapshot, c.Factions)
}

// currentRegionDifficulty returns the tier of the region the actor currently
// stands in, or 0 if it isn't tracked.
func (c *Context) currentRegionDifficulty() int {
	if c.Actor.CurrentRegionID == 0 {
		return 0
	}
	for _, r := range c.Snapshot.Regions {
		if uint64(c.Actor.CurrentRegionID) == uint64(r.ID) {
			return r.Tier
		}
	}
	return 0
}

// regionDangerPenalty mirrors scorers.py's _region_danger_penalty: a
// dangerous region is one whose difficulty*3 exceeds the hero's level+3
// comfort ceiling, penalized 0.05 per excess point up to 0.4.
func (c *Context) regionDangerPenalty() float64 {
	diff := c.currentRegionDifficulty()
	if diff <= 0 {
		return 0
	}
	level := c.Actor.Stats.Level
	threshold := float64(diff * 3)
	comfort := float64(level + 3)
	if threshold <= comfort {
		return 0
	}
	penalty := (threshold - comfort) * 0.05
	if penalty > 0.4 {
		penalty = 0.4
	}
	return penalty
}

func (c *Context) traitUtility(goal string) float64 {
	return entity.AggregateTraitUtility(c.Actor.Traits, c.Traits, goal)
}

// GoalScore is one scored, rankable goal.
type GoalScore struct {
	Goal        string
	Score       float64
	TargetState entity.AIState
}

// Scorer rates one goal's desirability for the given context. Scores <= 0
// are filtered out as non-viable.
type Scorer interface {
	Name() string
	TargetState() entity.AIState
	Score(ctx *Context) float64
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Evaluator scores and selects among a fixed set of scorers.
type Evaluator struct {
	scorers []Scorer
}

func NewEvaluator(scorers []Scorer) *Evaluator {
	return &Evaluator{scorers: scorers}
}

func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(DefaultScorers())
}

// Evaluate scores every registered goal, drops non-viable ones (score <=
// 0), and sorts the rest descending by score. Ties keep registration order
// (stable sort), matching Python's stable list.sort.
func (ev *Evaluator) Evaluate(ctx *Context) []GoalScore {
	scores := make([]GoalScore, 0, len(ev.scorers))
	for _, s := range ev.scorers {
		v := s.Score(ctx)
		if v > 0 {
			scores = append(scores, GoalScore{Goal: s.Name(), Score: v, TargetState: s.TargetState()})
		}
	}
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j].Score > scores[j-1].Score; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	return scores
}

// Select picks one goal via weighted random from the top topN candidates.
// rngValue must be a uniform float in [0, 1). Returns false if scores is
// empty.
func Select(scores []GoalScore, rngValue float64, topN int) (GoalScore, bool) {
	if len(scores) == 0 {
		return GoalScore{}, false
	}
	if topN > len(scores) {
		topN = len(scores)
	}
	candidates := scores[:topN]

	minScore := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < minScore {
			minScore = c.Score
		}
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		w := maxF(c.Score-minScore+0.1, 0.1)
		weights[i] = w
		total += w
	}

	target := rngValue * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target <= cumulative {
			return candidates[i], true
		}
	}
	return candidates[len(candidates)-1], true
}
