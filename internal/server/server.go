package server

import (
	"log/slog"
	"net/http"
	"time"

	"ballpop/internal/db"
	"ballpop/internal/metrics"
	"ballpop/internal/sessions"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const sessionCookie = "session_code"

type Server struct {
	Sessions *sessions.Store
	DB       *db.DB // nil if no database configured
	Metrics  *metrics.Metrics
	Limiters *Limiters
	Logger   *slog.Logger
}

// Routes builds the HTTP handler for every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.Metrics.Handler())
	r.Get("/tones/{kind}.wav", s.handleTone)

	r.With(s.rateLimit).Post("/sessions", s.handleCreateSession)

	r.Route("/session", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleGetSession)
		r.Get("/events", s.handleEvents)
		r.Get("/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/balls/{id}/click", s.handleClick)
			r.Post("/restart", s.handleRestart)
			r.Post("/contextmenu", s.handleContextMenu)
		})
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/runs/{id}", s.handleRunSummary)
	})

	return r
}

func (s *Server) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
