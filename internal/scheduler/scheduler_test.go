package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/guildledger/internal/worker"
)

// countingJob signals every run
type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (c *countingJob) Process(ctx context.Context) error {
	c.runs.Add(1)
	select {
	case c.done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	pool := worker.NewPool(1, 10, time.Second)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &countingJob{done: make(chan struct{}, 10)}
	sched.Schedule("count", 10*time.Millisecond, job)

	timeout := time.After(time.Second)
	for seen := 0; seen < 3; seen++ {
		select {
		case <-job.done:
		case <-timeout:
			t.Fatalf("timeout after %d runs", seen)
		}
	}
	assert.GreaterOrEqual(t, job.runs.Load(), int32(3))
}

func TestScheduler_FirstRunBeforeInterval(t *testing.T) {
	pool := worker.NewPool(1, 10, time.Second)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &countingJob{done: make(chan struct{}, 1)}
	sched.Schedule("hourly", time.Hour, job)

	select {
	case <-job.done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on schedule")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	pool := worker.NewPool(1, 10, time.Second)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	job := &countingJob{done: make(chan struct{}, 100)}
	sched.Schedule("count", time.Millisecond, job)

	sched.Stop()
	sched.Stop()

	settled := job.runs.Load()
	time.Sleep(20 * time.Millisecond)
	// At most the job that was already queued when Stop returned.
	require.LessOrEqual(t, job.runs.Load(), settled+1)
}
