package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive comments
	KeepaliveInterval = 30 * time.Second
)

// Stream event types besides the listing event types
const (
	EventTypeConnected = "connected"
)

// Query parameters accepted by the stream handler
const (
	QueryParamTypes    = "types"
	QueryParamItemType = "item_type"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgUnexpectedPayload  = "Unexpected listing event payload"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
)
