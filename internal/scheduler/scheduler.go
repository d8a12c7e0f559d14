// Package scheduler runs recurring background jobs on a worker pool.
package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/worker"
)

const logMsgTickSkipped = "Scheduled job skipped, worker queue full"

// Scheduler enqueues jobs on a fixed interval. A tick that finds the pool
// queue full is dropped rather than blocking later ticks.
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule runs job once immediately and then every interval until Stop.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.enqueue(name, job)
		for {
			select {
			case <-ticker.C:
				s.enqueue(name, job)
			case <-s.quit:
				return
			}
		}
	}()
}

func (s *Scheduler) enqueue(name string, job worker.Job) {
	if !s.workerPool.TryEnqueue(job) {
		logger.Warn(logMsgTickSkipped, "job", name)
	}
}

// Stop stops all scheduled jobs. Jobs already queued still run on the pool.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
