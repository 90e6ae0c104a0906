package server

import (
	"encoding/json"
	"net/http"

	"ballpop/internal/broadcast"
	"ballpop/internal/sessions"
	"ballpop/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// handleWS upgrades to a WebSocket that carries input events from the
// browser and pushes state and tone messages back.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.Logger.Error("websocket accept failed", "session", sess.Code, "error", err)
		return
	}
	defer conn.CloseNow()

	client := wshub.NewClient(uuid.NewString(), conn)
	logger := s.Logger.With("component", "ws", "session", sess.Code, "client", client.ID)

	view, err := json.Marshal(sess.Game.View())
	if err != nil {
		logger.Error("encoding view failed", "error", err)
		return
	}
	first, _ := json.Marshal(wshub.ServerMessage{Type: broadcast.EventState, View: view})
	client.Send <- first

	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)
	logger.Info("client connected", "clients", sess.Hub.Len())

	ctx := r.Context()
	go client.WritePump(ctx)

	limiter := s.Limiters.New()
	err = client.ReadPump(ctx, logger, func(msg wshub.ClientMessage) {
		s.dispatch(sess, client, limiter, msg)
	})
	logger.Info("client disconnected", "reason", err)
}

// dispatch applies one client message to the session. Input events share the
// HTTP rate limit; audio capability reports are always accepted.
func (s *Server) dispatch(sess *sessions.Session, client *wshub.Client, limiter *rate.Limiter, msg wshub.ClientMessage) {
	sess.Touch()
	if msg.Type == wshub.TypeAudio {
		client.SetAudio(msg.OK)
		return
	}
	if !limiter.Allow() {
		s.Logger.Debug("rate limited websocket message", "session", sess.Code, "client", client.ID, "type", msg.Type)
		return
	}
	switch msg.Type {
	case wshub.TypeClick:
		if msg.BallID == nil {
			s.Logger.Debug("click without ball id", "session", sess.Code, "client", client.ID)
			return
		}
		sess.Game.Click(*msg.BallID)
	case wshub.TypeRestart:
		sess.Game.Initialize()
	case wshub.TypeContextMenu:
		sess.Game.ContextMenu()
	default:
		s.Logger.Debug("unknown websocket message", "session", sess.Code, "type", msg.Type)
	}
}
