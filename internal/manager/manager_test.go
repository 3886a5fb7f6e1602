package manager

import (
	"testing"
	"time"

	"github.com/talgya/rowanengine/internal/ai"
	"github.com/talgya/rowanengine/internal/combat"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/loop"
	"github.com/talgya/rowanengine/internal/resolver"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/ticker"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/workerpool"
	"github.com/talgya/rowanengine/internal/world"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

func newTestLoop(t *testing.T, maxTicks int64) *loop.Loop {
	t.Helper()
	cfg := config.Default()
	cfg.MaxTicks = maxTicks

	grid := vecgrid.NewGrid(10, 10)
	w := world.New(1, grid, 4)
	w.AddEntity(&entity.Entity{
		ID:    w.AllocateEntityID(),
		Kind:  "hero",
		Pos:   vecgrid.Vector2{X: 1, Y: 1},
		Stats: entity.DefaultStats(),
	})

	source := rng.New(cfg.WorldSeed)
	factions := faction.Default()
	items := entity.MapItemRegistry{}
	traits := entity.MapTraitRegistry{}
	skills := entity.MapSkillRegistry{}

	events := eventlog.New(64)
	calc := combat.DefaultCalculator{}
	res := resolver.New(cfg, source, calc, items, nil)
	tck := ticker.New(cfg, factions, events, nil)
	brain := ai.New(cfg, factions, items, traits, source)
	pool := workerpool.New(1, brain, nil)

	return loop.New(cfg, w, pool, res, tck, nil, factions, items, skills, source, events, nil)
}

func TestManagerStartsPaused(t *testing.T) {
	m := New(config.Default(), newTestLoop(t, 1000), nopLogger{})
	m.Start()
	defer m.Stop()

	if got := m.State(); got != StatePaused {
		t.Fatalf("State() after Start() = %v, want PAUSED", got)
	}
}

func TestManagerResumeAdvancesTicks(t *testing.T) {
	l := newTestLoop(t, 1000)
	m := New(config.Default(), l, nopLogger{})
	m.Start()
	defer m.Stop()

	m.SetTickRate(10 * time.Millisecond)
	m.Resume()

	deadline := time.Now().Add(2 * time.Second)
	for l.World().Tick < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if l.World().Tick < 3 {
		t.Fatalf("tick did not advance past 3 within the deadline, got %d", l.World().Tick)
	}
}

func TestManagerPauseStopsAdvancing(t *testing.T) {
	l := newTestLoop(t, 1000)
	m := New(config.Default(), l, nopLogger{})
	m.Start()
	defer m.Stop()

	m.SetTickRate(10 * time.Millisecond)
	m.Resume()

	deadline := time.Now().Add(1 * time.Second)
	for l.World().Tick < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Pause()

	tickAtPause := l.World().Tick
	time.Sleep(100 * time.Millisecond)
	if l.World().Tick != tickAtPause {
		t.Fatalf("tick advanced after Pause(): was %d, now %d", tickAtPause, l.World().Tick)
	}
}

func TestManagerStepAdvancesExactlyOneTick(t *testing.T) {
	l := newTestLoop(t, 1000)
	m := New(config.Default(), l, nopLogger{})
	m.Start()
	defer m.Stop()

	before := l.World().Tick
	m.Step()

	deadline := time.Now().Add(1 * time.Second)
	for l.World().Tick == before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if l.World().Tick != before+1 {
		t.Fatalf("Step() advanced tick from %d to %d, want exactly %d", before, l.World().Tick, before+1)
	}

	// A second Step() call without a first Resume() should advance exactly
	// one more tick, not run freely.
	m.Step()
	deadline = time.Now().Add(1 * time.Second)
	for l.World().Tick == before+1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if l.World().Tick != before+2 {
		t.Fatalf("second Step() left tick at %d, want %d", l.World().Tick, before+2)
	}
}

func TestManagerStopHaltsTheGoroutine(t *testing.T) {
	l := newTestLoop(t, 1000)
	m := New(config.Default(), l, nopLogger{})
	m.Start()
	m.SetTickRate(10 * time.Millisecond)
	m.Resume()

	time.Sleep(30 * time.Millisecond)
	m.Stop()

	if got := m.State(); got != StateStopped {
		t.Fatalf("State() after Stop() = %v, want STOPPED", got)
	}

	tickAtStop := l.World().Tick
	time.Sleep(50 * time.Millisecond)
	if l.World().Tick != tickAtStop {
		t.Fatalf("tick advanced after Stop(): was %d, now %d", tickAtStop, l.World().Tick)
	}
}

func TestManagerSnapshotNeverNil(t *testing.T) {
	m := New(config.Default(), newTestLoop(t, 1000), nopLogger{})
	if m.Snapshot() == nil {
		t.Fatalf("Snapshot() returned nil before Start()")
	}
}

func TestManagerSetTickRateClamps(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, newTestLoop(t, 1000), nopLogger{})
	m.SetTickRate(time.Nanosecond)

	m.mu.RLock()
	got := m.tickRate
	m.mu.RUnlock()

	if got != cfg.MinTickRate {
		t.Fatalf("SetTickRate(1ns) stored %v, want floor %v", got, cfg.MinTickRate)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{StateStopped: "STOPPED", StateRunning: "RUNNING", StatePaused: "PAUSED"}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
