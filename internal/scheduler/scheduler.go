package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bilgisen/newscast/internal/logger"
)

// Scheduler triggers a job at a fixed interval. A tick that arrives while the
// previous job is still running is skipped rather than queued.
type Scheduler struct {
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	running  atomic.Bool
}

func New(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins ticking and runs the job once immediately. A scheduler starts
// at most once; after Stop it stays stopped.
func (s *Scheduler) Start(ctx context.Context, job func(ctx context.Context)) {
	if job == nil || s.interval <= 0 || !s.started.CompareAndSwap(false, true) {
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx, job)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				select {
				case <-s.stop:
					return
				default:
				}
				s.runOnce(ctx, job)
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, job func(ctx context.Context)) {
	if !s.running.CompareAndSwap(false, true) {
		logger.Get().Warn().Msg("Previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)
	job(ctx)
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
