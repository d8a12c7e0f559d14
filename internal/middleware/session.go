package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osse101/guildledger/internal/logger"
)

var (
	// ErrMissingSession means neither the Authorization header nor the session cookie was set.
	ErrMissingSession = errors.New("missing session")
	// ErrInvalidSession covers bad signatures, wrong issuer, expiry and empty subjects.
	ErrInvalidSession = errors.New("invalid session")
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// PlayerIDKey is the context key for the authenticated player
const PlayerIDKey contextKey = "player_id"

// WithPlayerID adds the authenticated player to ctx, for handlers and for logging.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	ctx = logger.WithPlayerID(ctx, playerID)
	return context.WithValue(ctx, PlayerIDKey, playerID)
}

// PlayerIDFromContext returns the authenticated player, or EmptyPlayerID.
func PlayerIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(PlayerIDKey).(string); ok {
		return id
	}
	return EmptyPlayerID
}

// SessionVerifier validates HS256 session tokens issued by the account service.
// The token subject is the player_id.
type SessionVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewSessionVerifier creates a verifier. An empty issuer disables the issuer check.
func NewSessionVerifier(secret, issuer string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify checks the token and returns its subject.
func (v *SessionVerifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return EmptyPlayerID, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return EmptyPlayerID, fmt.Errorf("%w: empty subject", ErrInvalidSession)
	}
	return claims.Subject, nil
}

// Issue signs a session for playerID valid for ttl. Used by local tooling and tests;
// production sessions come from the account service.
func (v *SessionVerifier) Issue(playerID string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Session requires a valid session token on every request and stores the player
// in the request context. onFailure, when set, observes rejected requests.
func Session(verifier *SessionVerifier, onFailure func(*http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				reject(w, r, onFailure, ErrMissingSession, ErrMsgMissingSession)
				return
			}

			playerID, err := verifier.Verify(token)
			if err != nil {
				reject(w, r, onFailure, err, ErrMsgInvalidSession)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), playerID)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(HeaderAuthorization); strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func reject(w http.ResponseWriter, r *http.Request, onFailure func(*http.Request), err error, message string) {
	logger.FromContext(r.Context()).Warn(LogMsgSessionRejected, "path", r.URL.Path, "error", err)
	if onFailure != nil {
		onFailure(r)
	}

	var body errorBody
	body.Error.Code = CodeUnauthenticated
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
