// Package action defines the ActionProposal value and the MPSC Action
// Queue, grounded on original_source/src/actions/base.py and
// src/engine/action_queue.py.
package action

import (
	"sync"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

// Verb is the action kind. Its numeric value is the primary key of the
// Conflict Resolver's total sort order (spec §4.8) — the ordering here is
// significant, not cosmetic.
type Verb int32

const (
	VerbRest Verb = iota
	VerbMove
	VerbAttack
	VerbUseItem
	VerbLoot
	VerbHarvest
	VerbUseSkill
)

func (v Verb) String() string {
	switch v {
	case VerbRest:
		return "REST"
	case VerbMove:
		return "MOVE"
	case VerbAttack:
		return "ATTACK"
	case VerbUseItem:
		return "USE_ITEM"
	case VerbLoot:
		return "LOOT"
	case VerbHarvest:
		return "HARVEST"
	case VerbUseSkill:
		return "USE_SKILL"
	default:
		return "UNKNOWN"
	}
}

// Target carries whichever payload a verb needs: a position for MOVE, an
// entity id for ATTACK, an item/skill id string otherwise.
type Target struct {
	Pos      *vecgrid.Vector2
	EntityID *entity.ID
	StringID string
}

// Proposal is an action intent produced by AI, validated and applied by the
// Conflict Resolver.
type Proposal struct {
	ActorID    entity.ID
	Verb       Verb
	Target     Target
	Reason     string
	NewAIState *entity.AIState
}

// Queue is a many-producer, single-consumer collector of proposals. Workers
// push; the loop thread drains. Queue order is not authoritative — the
// Conflict Resolver re-sorts everything it receives.
type Queue struct {
	mu    sync.Mutex
	items []Proposal
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(p Proposal) {
	q.mu.Lock()
	q.items = append(q.items, p)
	q.mu.Unlock()
}

// Drain returns and clears all queued proposals in one non-blocking batch.
func (q *Queue) Drain() []Proposal {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}
