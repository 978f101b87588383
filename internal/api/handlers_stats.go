package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleAnalysisStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stages":      s.orchestrator.Timings().Snapshot(),
	})
}
