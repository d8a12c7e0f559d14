package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/guildledger/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// ResilientPublisher wraps a Bus so that a failing subscriber never fails the
// operation that published the event. Failed deliveries are retried in the
// background with exponential backoff, then written to the dead letter.
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterWriter

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// NewResilientPublisher creates a new ResilientPublisher. deadLetter may be nil,
// in which case exhausted events are only logged.
func NewResilientPublisher(inner Bus, config ResilientConfig, deadLetter *DeadLetterWriter) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: deadLetter,
		stop:       make(chan struct{}),
	}
}

// Publish delivers the event once synchronously. On failure it schedules
// background retries and returns nil: the event has been accepted.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"max_retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event, err)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	defer p.wg.Done()
	ctx := logger.WithRequestID(context.Background(), event.Metadata.RequestID)

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		select {
		case <-time.After(CalculateRetryDelay(p.config.RetryDelay, attempt)):
		case <-p.stop:
			p.writeDeadLetter(ctx, event, attempt-1, lastErr)
			return
		}

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.FromContext(ctx).Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", attempt)
			return
		}
		logger.FromContext(ctx).Warn(LogMsgEventRetryFailed,
			"event_type", event.Type,
			"attempt", attempt,
			"error", lastErr)
	}

	p.writeDeadLetter(ctx, event, p.config.MaxRetries, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(ctx context.Context, event Event, attempts int, lastErr error) {
	log := logger.FromContext(ctx)
	if p.deadLetter == nil {
		log.Error(LogMsgEventDeadLettered, "event_type", event.Type, "attempts", attempts, "error", lastErr)
		return
	}
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		log.Error(LogMsgDeadLetterFailed, "event_type", event.Type, "error", err)
		return
	}
	log.Warn(LogMsgEventDeadLettered, "event_type", event.Type, "attempts", attempts)
}

// Shutdown cancels pending retries, dead-lettering their events, and waits
// for in-flight work until ctx expires.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
