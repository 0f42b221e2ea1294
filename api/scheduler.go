/*
scheduler.go - Monthly accrual scheduler

PURPOSE:
  Fires the leave-credit engine once per calendar month, shortly after
  midnight on the 1st, for every tenant. The manual /api/accrual/run
  endpoint shares the same engine, so either path can safely re-run.

DESIGN:
  - A background goroutine sleeps until the next firing time, runs, and
    reschedules. No overlapping invocations are possible from a single
    process because the loop is sequential; running multiple scheduler
    processes relies on the ledger's unique constraint as the backstop.
  - Each run is recorded in the accrual_runs audit table and appended to
    the daily summary log.

USAGE:
  scheduler := NewMonthlyScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunAccrual (manual trigger)
  - leave/engine.go: the engine itself
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/leave-engine/leave"
)

// firingDelay is how long after midnight on the 1st the run starts,
// leaving room for date-boundary jobs elsewhere to settle.
const firingDelay = 5 * time.Minute

// MonthlyScheduler triggers the accrual engine every month.
type MonthlyScheduler struct {
	Handler *Handler

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time

	timer *time.Timer
	stop  chan struct{}
	wg    sync.WaitGroup
	mu    sync.Mutex
}

// NewMonthlyScheduler creates a scheduler bound to the handler's engine
// and store.
func NewMonthlyScheduler(h *Handler) *MonthlyScheduler {
	return &MonthlyScheduler{
		Handler: h,
		stop:    make(chan struct{}),
	}
}

func (ms *MonthlyScheduler) now() time.Time {
	if ms.Now != nil {
		return ms.Now()
	}
	return time.Now()
}

// Start begins the scheduler loop.
func (ms *MonthlyScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	next := nextFire(ms.now())
	ms.timer = time.NewTimer(time.Until(next))
	ms.wg.Add(1)
	go ms.run()

	log.Printf("[Scheduler] Started, next accrual run at %v", next)
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (ms *MonthlyScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.timer != nil {
		ms.timer.Stop()
		close(ms.stop)
		ms.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ms *MonthlyScheduler) run() {
	defer ms.wg.Done()

	for {
		select {
		case <-ms.timer.C:
			ms.process()
			next := nextFire(ms.now())
			ms.timer.Reset(time.Until(next))
			log.Printf("[Scheduler] Next accrual run at %v", next)
		case <-ms.stop:
			return
		}
	}
}

func (ms *MonthlyScheduler) process() {
	ctx := context.Background()
	now := ms.now()

	log.Printf("[Scheduler] Monthly accrual firing for %d-%02d", now.Year(), int(now.Month()))

	report, err := ms.Handler.Engine.Run(ctx, leave.RunOptions{
		Year:  now.Year(),
		Month: int(now.Month()),
	})
	if err != nil {
		log.Printf("[Scheduler] Accrual run failed: %v", err)
		return
	}
	if err := ms.Handler.recordRun(ctx, report); err != nil {
		log.Printf("[Scheduler] Failed to record accrual run: %v", err)
	}
}

// nextFire returns the next 1st-of-month firing time after now.
func nextFire(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(firingDelay)
	if now.Before(first) {
		return first
	}
	return first.AddDate(0, 1, 0)
}
