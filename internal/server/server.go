package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/chorechart/internal/chore"
	"github.com/dukerupert/chorechart/internal/handler"
	"github.com/dukerupert/chorechart/internal/metrics"
	"github.com/dukerupert/chorechart/internal/middleware"
	"github.com/dukerupert/chorechart/internal/store"
	ws "github.com/dukerupert/chorechart/internal/websocket"
	"github.com/dukerupert/chorechart/web"
)

const defaultUpdateRateLimit = 120

type Options struct {
	// Clock decides which day is today. Defaults to local wall time.
	Clock chore.Clock
	// UpdateRateLimit is status updates per client IP per minute.
	UpdateRateLimit int
}

type Server struct {
	db          *sqlx.DB
	hub         *ws.Hub
	pageH       *handler.PageHandler
	statusH     *handler.StatusHandler
	rateLimiter *middleware.RateLimiter
	updateLimit int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(db *sqlx.DB, opts Options, logger *slog.Logger) (*Server, error) {
	tmpl, err := web.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if opts.UpdateRateLimit <= 0 {
		opts.UpdateRateLimit = defaultUpdateRateLimit
	}

	hub := ws.NewHub(logger.With("component", "websocket"))
	m := metrics.New()

	svc := chore.NewService(store.NewTaskStore(db), store.NewTaskLogStore(db), opts.Clock)

	return &Server{
		db:          db,
		hub:         hub,
		pageH:       handler.NewPageHandler(svc, tmpl, logger.With("component", "page")),
		statusH:     handler.NewStatusHandler(svc, hub, m, logger.With("component", "status")),
		rateLimiter: middleware.NewRateLimiter(),
		updateLimit: opts.UpdateRateLimit,
		metrics:     m,
		logger:      logger,
	}, nil
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.pageH.Index)
	mux.HandleFunc("GET /kid/{kid}", s.pageH.Kid)

	// API
	mux.HandleFunc("POST /api/update_status", s.rateLimitedHandler(s.statusH.UpdateStatus))
	mux.HandleFunc("GET /api/tasks", s.statusH.ListTasks)

	// Assets, operations, live updates
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"), s.metrics)(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.updateLimit, time.Minute)
	return rl(h).ServeHTTP
}
