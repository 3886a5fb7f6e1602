// Package eventlog is an append-only, operator-facing event buffer,
// grounded on the teacher's internal/engine.Event/Simulation.Events ring
// buffer (internal/engine/simulation.go), adapted from a subscriber-fanout
// chat log into the tick/category/message/entity-id/metadata shape the
// engine needs.
package eventlog

import (
	"fmt"

	"github.com/talgya/rowanengine/internal/entity"

	humanize "github.com/dustin/go-humanize"
)

// Event is one recorded occurrence: a death, a region crossing, a quest
// completion, a level-up. Metadata is intentionally loose (map[string]any)
// since the set of event shapes grows with the content tables, not the
// core engine.
type Event struct {
	Tick      int64          `json:"tick"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	EntityIDs []entity.ID    `json:"entity_ids,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Log is a bounded ring buffer of recent events. It is only ever appended
// to by the loop thread, matching the single-writer rule the rest of the
// engine follows.
type Log struct {
	cap    int
	events []Event
	next   int
	filled bool
}

// New builds a ring buffer holding at most capacity events. A non-positive
// capacity is floored at 1.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{cap: capacity, events: make([]Event, capacity)}
}

// Append records one event, overwriting the oldest entry once full.
func (l *Log) Append(e Event) {
	l.events[l.next] = e
	l.next = (l.next + 1) % l.cap
	if l.next == 0 {
		l.filled = true
	}
}

// Recent returns up to n of the most recently appended events, oldest
// first.
func (l *Log) Recent(n int) []Event {
	total := l.next
	if l.filled {
		total = l.cap
	}
	if n > total || n <= 0 {
		n = total
	}
	out := make([]Event, 0, n)
	start := l.next - n
	for i := 0; i < n; i++ {
		idx := (start + i + l.cap) % l.cap
		out = append(out, l.events[idx])
	}
	return out
}

// Humanize renders an event as a short operator-facing line, e.g.
// "[tick 1,204] death: goblin_warrior(#17) slain by hero(#1)".
func Humanize(e Event) string {
	return fmt.Sprintf("[tick %s] %s: %s", humanize.Comma(e.Tick), e.Category, e.Message)
}
