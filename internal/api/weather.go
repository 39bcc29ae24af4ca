package api

import (
	"net/http"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/weather"
)

// ─── POST /api/get-weather ────────────────────────────────────────────────────

type weatherRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Accuracy  *float64 `json:"accuracy"`
	Region    string   `json:"region"`
	Language  string   `json:"language"`
}

type weatherResponse struct {
	Success  bool               `json:"success"`
	Weather  weather.Conditions `json:"weather"`
	Location weather.Location   `json:"location"`
	Advice   []string           `json:"advice"`
}

// handleGetWeather returns current conditions with region metadata. Without
// coordinates it falls back to the named region's reference city, then to
// the default region.
func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if !decode(w, r, &req, maxBody) {
		return
	}
	lang := agronomy.ParseLanguage(req.Language)

	var loc weather.Location
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		loc = weather.Locate(*req.Latitude, *req.Longitude, req.Altitude)
		loc.Accuracy = req.Accuracy
	default:
		region, ok := weather.RegionByName(req.Region)
		if !ok {
			region = weather.DefaultRegion
		}
		loc = region.Fallback()
	}

	cond, err := s.weather.Current(r.Context(), loc.Latitude, loc.Longitude, string(lang))
	if err != nil {
		s.logger.Error("weather lookup failed", "error", err, "region", loc.Region, logField(r))
		respond(w, http.StatusServiceUnavailable, unavailableResponse{
			Error:   agronomy.Message(lang, agronomy.MsgServiceUnavailable),
			Details: err.Error(),
		})
		return
	}

	respond(w, http.StatusOK, weatherResponse{
		Success:  true,
		Weather:  cond,
		Location: loc,
		Advice:   weather.Advice(cond, string(lang)),
	})
}
