// Package ai is the top-level Brain: decide(entity, snapshot) → (new
// ai_state, proposal), wiring the Goal Evaluator to the State Handlers per
// spec §4.6.
package ai

import (
	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/ai/goals"
	"github.com/talgya/rowanengine/internal/ai/states"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/snapshot"
)

// Brain is the stateless decision engine; one instance is shared by every
// worker goroutine since all of its collaborators are read-only or
// immutable RNG sources.
type Brain struct {
	Evaluator *goals.Evaluator
	Handlers  map[entity.AIState]states.Handler
	Config    config.Config
	Factions  *faction.Registry
	Items     entity.ItemRegistry
	Traits    entity.TraitRegistry
	RNG       rng.Source
}

func New(cfg config.Config, factions *faction.Registry, items entity.ItemRegistry, traits entity.TraitRegistry, source rng.Source) *Brain {
	return &Brain{
		Evaluator: goals.NewDefaultEvaluator(),
		Handlers:  states.DefaultHandlers(),
		Config:    cfg,
		Factions:  factions,
		Items:     items,
		Traits:    traits,
		RNG:       source,
	}
}

// Decide runs one entity's AI turn: if its current state is a decision
// state, the Goal Evaluator picks a target state first; either way, the
// corresponding State Handler produces the proposal.
func (b *Brain) Decide(actor *entity.Entity, snap *snapshot.Snapshot, tick int64) action.Proposal {
	dispatchState := actor.AIState

	if dispatchState.IsDecisionState() {
		gctx := goals.NewContext(actor, snap, b.Config, b.Factions, b.Traits, b.Items)
		scores := b.Evaluator.Evaluate(gctx)
		if len(scores) > 0 {
			rngVal := b.RNG.NextFloat(rng.AIDecision, uint64(actor.ID), tick+50)
			if chosen, ok := goals.Select(scores, rngVal, b.Config.GoalTopN); ok {
				dispatchState = chosen.TargetState
			}
		}
	}

	handler, ok := b.Handlers[dispatchState]
	if !ok {
		handler = b.Handlers[entity.Idle]
	}

	sctx := &states.Context{
		Actor: actor, Snapshot: snap, Config: b.Config,
		Factions: b.Factions, Items: b.Items, RNG: b.RNG, Tick: tick,
	}
	proposal := handler(sctx)

	if proposal.NewAIState == nil && dispatchState != actor.AIState {
		s := dispatchState
		proposal.NewAIState = &s
	}
	return proposal
}
