package api

import (
	"net/http"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

// ─── GET /api/ai/providers ────────────────────────────────────────────────────

// handleListProviders reports the configured chain in priority order. Keys and
// endpoints are never included.
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"providers": ai.Describe(ai.BuildProviders(s.cfg.Providers)),
	})
}
