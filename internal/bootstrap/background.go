package bootstrap

import (
	"log/slog"

	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/repository"
	"github.com/osse101/guildledger/internal/scheduler"
	"github.com/osse101/guildledger/internal/worker"
)

// Background is the worker pool for off-request work and the scheduler feeding it.
type Background struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartBackground starts the shared pool and registers recurring jobs.
func StartBackground(cfg *config.Config, market repository.Market) *Background {
	pool := worker.NewPool(BackgroundWorkers, BackgroundQueueSize, BackgroundJobTimeout)
	pool.Start()

	sched := scheduler.New(pool)
	if cfg.MarketSnapshotInterval > 0 {
		sched.Schedule(JobNameMarketDepth, cfg.MarketSnapshotInterval, metrics.NewMarketDepthJob(market))
		slog.Info(LogMsgJobScheduled, "job", JobNameMarketDepth, "interval", cfg.MarketSnapshotInterval)
	}

	slog.Info(LogMsgBackgroundStarted, "workers", BackgroundWorkers)
	return &Background{Pool: pool, Scheduler: sched}
}

// Stop halts the scheduler first so no tick lands on a stopped pool.
func (b *Background) Stop() {
	b.Scheduler.Stop()
	b.Pool.Stop()
}
