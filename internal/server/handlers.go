package server

import (
	"net/http"
	"strconv"

	"ballpop/internal/game"

	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	Code string    `json:"code"`
	View game.View `json:"view"`
}

type clickResponse struct {
	Outcome string    `json:"outcome"`
	View    game.View `json:"view"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Create()
	if err != nil {
		s.Logger.Error("create session failed", "error", err, "request_id", requestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Code,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, sessionResponse{Code: sess.Code, View: sess.Game.View()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, sessionResponse{Code: sess.Code, View: sess.Game.View()})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ball id")
		return
	}
	outcome := sess.Game.Click(id)
	writeJSON(w, http.StatusOK, clickResponse{Outcome: outcome.String(), View: sess.Game.View()})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Game.Initialize()
	writeJSON(w, http.StatusOK, sessionResponse{Code: sess.Code, View: sess.Game.View()})
}

func (s *Server) handleContextMenu(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Game.ContextMenu()
	writeJSON(w, http.StatusOK, sessionResponse{Code: sess.Code, View: sess.Game.View()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"sessions": s.Sessions.Len(),
	}
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			resp["status"] = "db_error"
			resp["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
