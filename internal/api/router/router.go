package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/material-scheduler/internal/http/middleware"
	"github.com/wolfman30/material-scheduler/internal/sessions"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Sessions           *sessions.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Serves GET /events when set.
	EventsHandler http.Handler

	// Optional limit on session creation per client.
	SessionLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.EventsHandler != nil {
		r.Method(http.MethodGet, "/events", cfg.EventsHandler)
	}

	if cfg.Sessions != nil {
		r.Get("/catalog", cfg.Sessions.ListCatalog)

		var createMW []func(http.Handler) http.Handler
		if cfg.SessionLimiter != nil {
			createMW = append(createMW, cfg.SessionLimiter.Middleware)
		}
		r.Mount("/sessions", cfg.Sessions.Routes(createMW...))
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
