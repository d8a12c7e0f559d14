package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/osse101/guildledger/docs"
	"github.com/osse101/guildledger/internal/economy"
	"github.com/osse101/guildledger/internal/handler"
	"github.com/osse101/guildledger/internal/ledger"
	"github.com/osse101/guildledger/internal/logger"
	"github.com/osse101/guildledger/internal/market"
	"github.com/osse101/guildledger/internal/metrics"
	"github.com/osse101/guildledger/internal/middleware"
	"github.com/osse101/guildledger/internal/sse"
)

// Options configure the HTTP surface.
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string
	MaxBodyBytes   int64
}

// Services are the domain services behind the routes.
type Services struct {
	Store    handler.Pinger
	Ledger   ledger.Service
	Economy  economy.Service
	Market   market.Service
	Hub      *sse.Hub
	Sessions *middleware.SessionVerifier
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	handler.InitValidator()

	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(loggingMiddleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	r.Use(metrics.Middleware)

	// Public routes
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Store))
	r.Get("/version", handler.HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	equipment := handler.NewEquipmentHandlers(svc.Economy)
	marketplace := handler.NewMarketHandlers(svc.Market)
	ledgers := handler.NewLedgerHandlers(svc.Ledger)

	onSessionFailure := func(req *http.Request) {
		detector.RecordFailedAuth(extractIP(req, opts.TrustedProxies))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Player routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(svc.Sessions, onSessionFailure))

			r.Get("/ledger", ledgers.HandleGetLedger())

			r.Route("/equipment", func(r chi.Router) {
				r.Get("/shop", equipment.HandleShop())
				r.Post("/purchase", equipment.HandlePurchase())
				r.Post("/sell", equipment.HandleSell())
				r.Get("/inventory", equipment.HandleInventory())
				r.Post("/slot/{slot}", equipment.HandleSlot())
			})

			r.Route("/market", func(r chi.Router) {
				r.Get("/", marketplace.HandleBrowse())
				if svc.Hub != nil {
					r.Get("/stream", sse.Handler(svc.Hub))
				}
				r.Post("/listings", marketplace.HandleCreate())
				r.Get("/listings/mine", marketplace.HandleMine())
				r.Delete("/listings/{id}", marketplace.HandleCancel())
				r.Post("/listings/{id}/buy", marketplace.HandleBuy())
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(APIKeyMiddleware(opts.APIKey, opts.TrustedProxies, detector))
			r.Post("/players", ledgers.HandleProvision())
			r.Post("/players/{id}/grant", ledgers.HandleGrant())
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the SSE stream working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		for _, p := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) || strings.EqualFold(k, HeaderCookie) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
