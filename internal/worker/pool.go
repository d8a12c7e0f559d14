package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/guildledger/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

// Process calls f.
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// Pool runs jobs on a fixed set of goroutines off the request path.
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobQueue   chan Job
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers, queueSize int, jobTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	return &Pool{
		workers:    workers,
		jobTimeout: jobTimeout,
		jobQueue:   make(chan Job, queueSize),
		quit:       make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			// Finish what was queued before Stop.
			for {
				select {
				case job := <-p.jobQueue:
					p.run(job)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// TryEnqueue queues a job without blocking. It reports false when the queue
// is full or the pool has stopped.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.Warn(LogMsgQueueFull)
		return false
	}
}

// Stop stops accepting jobs, drains the queue and waits for the workers.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
