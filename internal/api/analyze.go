package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

// location is the optional geographic context shared by the analysis bodies.
type location struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Altitude    *float64 `json:"altitude"`
	RegionName  string   `json:"regionName"`
	ClimateZone string   `json:"climateZone"`
}

func (l location) domain() agronomy.Location {
	return agronomy.Location{
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Altitude:    l.Altitude,
		RegionName:  strings.TrimSpace(l.RegionName),
		ClimateZone: strings.TrimSpace(l.ClimateZone),
	}
}

type analysisResponse struct {
	Success    bool      `json:"success"`
	Analysis   any       `json:"analysis"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Provider   string    `json:"provider"`
}

type unavailableResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// providers builds the chain for this request from the explicit credential
// set. When nothing is configured it writes the configuration-error 500 and
// returns false.
func (s *Server) providers(w http.ResponseWriter, r *http.Request, lang agronomy.Language) ([]ai.Provider, bool) {
	providers := ai.BuildProviders(s.cfg.Providers)
	if len(providers) == 0 {
		s.logger.Error("no AI providers configured", "path", r.URL.Path, logField(r))
		respondErr(w, http.StatusInternalServerError, agronomy.Message(lang, agronomy.MsgNoProviders))
		return nil, false
	}
	return providers, true
}

// reference loads the database snapshot. Enrichment is advisory, so a failed
// fetch is logged and treated as an empty snapshot.
func (s *Server) reference(ctx context.Context, r *http.Request) agronomy.Reference {
	ref, err := s.ref.Reference(ctx)
	if err != nil {
		s.logger.Warn("reference rows unavailable, continuing without enrichment",
			"error", err,
			logField(r),
		)
		return agronomy.Reference{}
	}
	return ref
}

// respondUnavailable reports an exhausted or fatally stopped chain. details
// carries the last provider error, which never contains credentials.
func (s *Server) respondUnavailable(w http.ResponseWriter, r *http.Request, lang agronomy.Language, res ai.Result) {
	s.logger.Error("all AI providers failed",
		"path", r.URL.Path,
		"attempts", res.Attempts,
		"last_error", res.LastError,
		logField(r),
	)
	respond(w, http.StatusServiceUnavailable, unavailableResponse{
		Error:   agronomy.Message(lang, agronomy.MsgServiceUnavailable),
		Details: res.LastError,
	})
}
