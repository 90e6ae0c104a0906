package server

import (
	"errors"
	"net/http"
	"strconv"

	"ballpop/internal/analytics"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 50
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "fastest"
	}
	limit := defaultLeaderboardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxLeaderboardSize)
	}

	entries, err := analytics.NewQueries(s.DB).GetLeaderboard(category, limit)
	if errors.Is(err, analytics.ErrUnknownCategory) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.Logger.Error("leaderboard query failed", "category", category, "error", err)
		writeError(w, http.StatusInternalServerError, "error loading leaderboard")
		return
	}
	if entries == nil {
		entries = []analytics.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	summary, err := analytics.NewQueries(s.DB).GetRunSummary(id)
	if errors.Is(err, analytics.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.Logger.Error("run summary query failed", "run", id, "error", err)
		writeError(w, http.StatusInternalServerError, "error loading run")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
