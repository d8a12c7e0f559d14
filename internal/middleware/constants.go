package middleware

// Session transport
const (
	// HeaderAuthorization carries "Bearer <jwt>".
	HeaderAuthorization = "Authorization"
	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
	// SessionCookieName is the cookie fallback for browser clients.
	SessionCookieName = "session"
)

// Error codes and messages written by this package
const (
	CodeUnauthenticated = "UNAUTHENTICATED"

	ErrMsgMissingSession = "Missing session token"
	ErrMsgInvalidSession = "Invalid or expired session"
)

// Log Messages
const (
	LogMsgSessionRejected = "Session rejected"
)

// EmptyPlayerID represents a missing player ID
const EmptyPlayerID = ""
