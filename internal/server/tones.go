package server

import (
	"net/http"
	"strconv"

	"ballpop/internal/tone"

	"github.com/go-chi/chi/v5"
)

// handleTone serves a cue rendered as WAV for clients without a synthesizer.
func (s *Server) handleTone(w http.ResponseWriter, r *http.Request) {
	cue, ok := tone.CueFor(tone.Kind(chi.URLParam(r, "kind")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tone")
		return
	}
	data, err := tone.Render(cue, tone.DefaultSampleRate)
	if err != nil {
		s.Logger.Error("rendering tone failed", "kind", cue.Kind, "error", err)
		writeError(w, http.StatusInternalServerError, "rendering tone failed")
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
