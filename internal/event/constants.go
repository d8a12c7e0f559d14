package event

import "time"

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Retry defaults
const (
	DefaultMaxRetries = 5
	DefaultRetryDelay = 2 * time.Second
)

// DeadLetterFilePermissions is the file permission mode for dead-letter files
const DeadLetterFilePermissions = 0o644

// Log and error messages
const (
	LogMsgEventPublishFailed  = "Event publish failed, retrying in background"
	LogMsgEventRetryFailed    = "Event retry failed"
	LogMsgEventRetrySucceeded = "Event retry succeeded"
	LogMsgEventDeadLettered   = "Event retries exhausted, written to dead letter"
	LogMsgDeadLetterFailed    = "Failed to write event to dead letter"
	LogMsgShutdownTimeout     = "Resilient publisher shutdown timed out"

	ErrMsgHandlerErrorsFmt = "%d handler(s) failed for event %s: %w"
)

// CalculateRetryDelay returns the exponential backoff for a retry attempt:
// base, 2*base, 4*base, ...
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
