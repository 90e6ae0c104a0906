package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ballpop/internal/broadcast"
)

const ssePing = 30 * time.Second

// handleEvents streams "state" and "tone" events. The current state is sent
// first so a fresh subscriber can render immediately.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(ch)

	view, err := json.Marshal(sess.Game.View())
	if err != nil {
		s.Logger.Error("encoding view failed", "session", sess.Code, "error", err)
		return
	}
	writeEvent(w, broadcast.EventState, view)
	flusher.Flush()

	ping := time.NewTicker(ssePing)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.Bus.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, msg.Event, msg.Data)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
