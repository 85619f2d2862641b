package api

import (
	"net/http"
)

func (s *Server) handleDecodeStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"window":      s.cfg.StatsWindow.String(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"documents":   s.orchestrator.Cache().Len(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}
