// Package manager is the Engine Manager: lifecycle control and thread-safe
// snapshot publication for external observers (spec §4.12), grounded on
// the teacher's internal/engine.Engine — a Speed/Interval/Running struct
// whose Run loop sleeps to pace ticks and whose Stop flips Running false —
// adapted from "interval paced by Speed" to "interval paced by a
// configurable tick rate, with a distinct paused/stepped mode" since the
// spec separates pause (stop advancing) from speed (how fast to advance).
package manager

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/loop"
	"github.com/talgya/rowanengine/internal/snapshot"
	worldPkg "github.com/talgya/rowanengine/internal/world"
)

// InvariantError marks a fatal engine-internal consistency violation (spec
// §4.9's closing note: "invariant violations... are fatal — the tick is
// logged and the loop stops. Such violations indicate an engine bug, not a
// user error."). It is never expected in a correct build; its existence is
// a contract for catching regressions fast rather than corrupting state
// silently.
type InvariantError struct {
	Tick    int64
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violation at tick " + itoa(e.Tick) + ": " + e.Message
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// State is the Manager's run state, reported to callers polling status.
type State int8

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	default:
		return "STOPPED"
	}
}

// Manager owns the Loop and publishes an immutable Snapshot after every
// committed tick, under a mutex, so API/CLI observers never see a
// partially-mutated World (spec §4.12, §5).
type Manager struct {
	RunID string

	cfg  config.Config
	loop *loop.Loop
	log  eventLogger

	mu       sync.RWMutex
	state    State
	tickRate time.Duration
	snap     *snapshot.Snapshot

	stepCh chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}

	fatal error
}

// eventLogger is the minimal logging contract the Manager needs — kept
// separate from *slog.Logger so tests can swap in a recorder.
type eventLogger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

func New(cfg config.Config, l *loop.Loop, log eventLogger) *Manager {
	return &Manager{
		RunID:    uuid.NewString(),
		cfg:      cfg,
		loop:     l,
		log:      log,
		tickRate: cfg.ClampTickRate(cfg.MinTickRate),
		snap:     snapshot.FromWorld(l.World()),
		stepCh:   make(chan struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the dedicated loop goroutine in the paused state; the
// caller must call Resume to begin advancing ticks.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.state != StateStopped {
		m.mu.Unlock()
		return
	}
	m.state = StatePaused
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.run()
}

// run is the dedicated loop goroutine: paces tick_once() by the configured
// tick rate while running, blocks on stepCh while paused, and publishes a
// fresh Snapshot after every committed tick.
func (m *Manager) run() {
	defer close(m.doneCh)
	for {
		select {
		case <-m.stopCh:
			return
		default:
		}

		m.mu.RLock()
		state := m.state
		rate := m.tickRate
		m.mu.RUnlock()

		switch state {
		case StateStopped:
			return
		case StatePaused:
			select {
			case <-m.stopCh:
				return
			case <-m.stepCh:
				m.tick()
			}
		case StateRunning:
			start := time.Now()
			if !m.tick() {
				return
			}
			elapsed := time.Since(start)
			if elapsed < rate {
				select {
				case <-m.stopCh:
					return
				case <-time.After(rate - elapsed):
				}
			}
		}
	}
}

// tick runs one loop tick, checks post-tick invariants, and publishes the
// resulting snapshot. It returns false if the simulation reported it should
// stop (spec §4.9 phase 0) or an invariant was violated (spec line 272).
func (m *Manager) tick() bool {
	ok := m.loop.TickOnce()
	w := m.loop.World()

	if err := checkInvariants(w); err != nil {
		snap := snapshot.FromWorld(w)
		m.mu.Lock()
		m.snap = snap
		m.state = StateStopped
		m.fatal = err
		m.mu.Unlock()
		if m.log != nil {
			m.log.Error("invariant violation, loop stopped", "tick", w.Tick, "err", err)
		}
		return false
	}

	snap := snapshot.FromWorld(w)
	m.mu.Lock()
	m.snap = snap
	if !ok {
		m.state = StateStopped
	}
	m.mu.Unlock()

	if !ok && m.log != nil {
		m.log.Info("loop stopped", "tick", snap.Tick)
	}
	return ok
}

// checkInvariants re-validates the cheap, always-must-hold world invariant
// after a committed tick (spec's closing note on §4.9: an entity position
// outside the grid indicates an engine bug rather than a user error, so it
// halts the loop rather than being silently tolerated).
func checkInvariants(w *worldPkg.World) error {
	for id, e := range w.Entities {
		if !w.Grid.InBounds(e.Pos) {
			return &InvariantError{Tick: w.Tick, Message: "entity " + itoa(int64(id)) + " position outside grid"}
		}
	}
	return nil
}

// Pause stops ticks from advancing without tearing down the goroutine.
func (m *Manager) Pause() {
	m.mu.Lock()
	if m.state == StateRunning {
		m.state = StatePaused
	}
	m.mu.Unlock()
}

// Resume continues advancing ticks at the configured tick rate.
func (m *Manager) Resume() {
	m.mu.Lock()
	if m.state == StatePaused {
		m.state = StateRunning
	}
	m.mu.Unlock()
}

// Step advances exactly one tick while paused; a no-op while running or
// stopped.
func (m *Manager) Step() {
	m.mu.RLock()
	paused := m.state == StatePaused
	m.mu.RUnlock()
	if !paused {
		return
	}
	select {
	case m.stepCh <- struct{}{}:
	case <-m.doneCh:
	}
}

// Stop halts the loop goroutine and waits for it to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return
	}
	m.state = StateStopped
	done := m.doneCh
	m.mu.Unlock()

	close(m.stopCh)
	if done != nil {
		<-done
	}
	m.stopCh = make(chan struct{})
}

// SetTickRate clamps d to [MinTickRate, MaxTickRate] (spec §4.12: floor
// 0.01s, ceiling 2.0s) and applies it to subsequent ticks.
func (m *Manager) SetTickRate(d time.Duration) {
	m.mu.Lock()
	m.tickRate = m.cfg.ClampTickRate(d)
	m.mu.Unlock()
}

// Reset replaces the running World with a fresh one, stopping the loop
// first if necessary. Callers must rebuild the Loop around the new World
// and pass it here — the Manager does not own world construction.
func (m *Manager) Reset(l *loop.Loop) {
	m.Stop()
	m.mu.Lock()
	m.loop = l
	m.snap = snapshot.FromWorld(l.World())
	m.state = StateStopped
	m.mu.Unlock()
}

// Snapshot returns the most recently published Snapshot. Safe for
// concurrent callers; never returns a half-mutated World.
func (m *Manager) Snapshot() *snapshot.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// EventLog exposes the loop's underlying event ring buffer for read access.
// The Manager itself never appends — only the loop thread does.
func (m *Manager) EventLog(events *eventlog.Log, n int) []eventlog.Event {
	if events == nil {
		return nil
	}
	return events.Recent(n)
}

// State reports the current run state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Fatal returns the invariant violation that halted the loop, if any.
func (m *Manager) Fatal() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fatal
}
