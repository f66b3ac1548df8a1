// Package scheduler wraps robfig/cron/v3 with the mutex-guarded
// name-to-entry-id bookkeeping spec.md §4.6 requires so tasks can be
// added after the scheduler has already started (the Open Question
// DESIGN.md resolves in favor of the relaxed, mid-run-insert-capable
// behavior rather than the original's startup-only restriction).
//
// Deliberately decoupled from internal/framework's handler types —
// Schedule takes a plain func() — so internal/framework can depend on
// internal/scheduler without a cycle back the other way.
package scheduler

import (
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/tulpje/tulpje/internal/apperr"
)

// Scheduler runs named, cron-triggered functions. By default robfig/cron
// invokes each tick in its own goroutine with no overlap guard, which is
// exactly spec.md §4.6's "a task that overruns its period runs
// concurrently with its own next invocation" requirement — no extra
// chaining is added on top.
type Scheduler struct {
	cron *cron.Cron

	mu  sync.Mutex
	ids map[string]cron.EntryID
}

// New builds a Scheduler using a 6-field (seconds-mandatory) cron parser.
func New() *Scheduler {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		cron: cron.New(cron.WithParser(parser)),
		ids:  make(map[string]cron.EntryID),
	}
}

// Schedule adds or replaces the task named name, running fn on every
// tick matching cronExpr. The id-map mutation is guarded by a mutex held
// only across the map update, never across fn's execution, so Schedule
// is safe to call while the scheduler is already running.
func (s *Scheduler) Schedule(name, cronExpr string, fn func()) error {
	id, err := s.cron.AddFunc(cronExpr, fn)
	if err != nil {
		return apperr.Wrap(apperr.KindParse, "schedule task "+name, err)
	}

	s.mu.Lock()
	if old, ok := s.ids[name]; ok {
		s.cron.Remove(old)
	}
	s.ids[name] = id
	s.mu.Unlock()

	return nil
}

// Remove cancels the named task, a no-op if it isn't scheduled.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	id, ok := s.ids[name]
	if ok {
		delete(s.ids, name)
	}
	s.mu.Unlock()

	if ok {
		s.cron.Remove(id)
	}
}

// Start begins running scheduled tasks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler, waiting for in-flight task invocations to
// return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
