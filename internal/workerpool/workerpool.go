// Package workerpool dispatches AI decisions across a bounded goroutine
// pool, grounded on spec §4.11 and the teacher's sync.WaitGroup-based
// completion style (internal/engine/simulation.go's subscriber fan-out).
package workerpool

import (
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/ai"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/snapshot"
)

// Pool runs one AI decision per ready entity, in parallel, against a shared
// immutable Snapshot.
type Pool struct {
	workers int
	brain   *ai.Brain
	log     *slog.Logger
}

func New(workers int, brain *ai.Brain, log *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{workers: workers, brain: brain, log: log}
}

// Dispatch runs brain.Decide for every ready entity and pushes the results
// onto queue. It blocks until every task completes or timeout elapses,
// whichever comes first; entities left undecided at timeout simply don't
// act this tick. A worker panic is caught, logged, and treated as a skipped
// turn — it never brings down the pool or the loop.
func (p *Pool) Dispatch(ready []*entity.Entity, snap *snapshot.Snapshot, tick int64, queue *action.Queue, timeout time.Duration) {
	if len(ready) == 0 {
		return
	}

	// Inline fast path avoids goroutine/channel overhead entirely when
	// parallelism wouldn't help anyway and there is no timeout to enforce.
	if p.workers <= 1 && timeout <= 0 {
		for _, e := range ready {
			p.decideOne(e, snap, tick, queue)
		}
		return
	}

	jobs := make(chan *entity.Entity, len(ready))
	for _, e := range ready {
		jobs <- e
	}
	close(jobs)

	var wg sync.WaitGroup
	workerCount := p.workers
	if workerCount > len(ready) {
		workerCount = len(ready)
	}
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for e := range jobs {
				p.decideOne(e, snap, tick, queue)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		p.log.Warn("worker pool dispatch timed out; committing partial results", "tick", tick, "ready", len(ready))
	}
}

func (p *Pool) decideOne(e *entity.Entity, snap *snapshot.Snapshot, tick int64, queue *action.Queue) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("ai decision panicked; skipping entity's turn", "entity", e.ID, "tick", tick, "panic", r)
		}
	}()
	proposal := p.brain.Decide(e, snap, tick)
	queue.Push(proposal)
}
