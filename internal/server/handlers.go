package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth responds to liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleSystemStatus reports basic process information.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
