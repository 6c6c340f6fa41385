package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type task struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context)
}

// Scheduler runs registered tasks on fixed intervals until its context is
// cancelled. Each task runs on its own goroutine; a slow run delays only its
// own next tick.
type Scheduler struct {
	tasks []task
	wg    sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(name string, interval time.Duration, run func(ctx context.Context)) {
	s.tasks = append(s.tasks, task{name: name, interval: interval, run: run})
}

// Start launches all registered tasks. Each task runs once immediately and
// then on every interval tick.
func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go func(t task) {
			defer s.wg.Done()
			slog.Info("scheduled task started", "task", t.name, "interval", t.interval)
			t.run(ctx)

			ticker := time.NewTicker(t.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					slog.Info("scheduled task stopped", "task", t.name)
					return
				case <-ticker.C:
					t.run(ctx)
				}
			}
		}(t)
	}
}

// Wait blocks until all tasks have observed the context cancellation.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
