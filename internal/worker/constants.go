package worker

import "time"

// Log messages
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgQueueFull       = "Worker queue full, job dropped"
)

// DefaultJobTimeout bounds a single job when the pool is not configured otherwise.
const DefaultJobTimeout = 10 * time.Second
