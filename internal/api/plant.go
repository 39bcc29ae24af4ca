package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
)

// ─── POST /api/analyze-plant ──────────────────────────────────────────────────

type analyzePlantRequest struct {
	Image             string `json:"image"`
	Language          string `json:"language"`
	UserSpecifiedCrop string `json:"userSpecifiedCrop"`
	location
}

// handleAnalyzePlant diagnoses plant health from a photo. The image is checked
// before any provider is contacted.
func (s *Server) handleAnalyzePlant(w http.ResponseWriter, r *http.Request) {
	var req analyzePlantRequest
	if !decode(w, r, &req, maxImageBody) {
		return
	}
	lang := agronomy.ParseLanguage(req.Language)

	if strings.TrimSpace(req.Image) == "" {
		respondErr(w, http.StatusBadRequest, agronomy.Message(lang, agronomy.MsgImageRequired))
		return
	}

	providers, ok := s.providers(w, r, lang)
	if !ok {
		return
	}

	ctx := r.Context()
	ref := s.reference(ctx, r)

	res := s.chain.Run(ctx, providers, agronomy.PlantRequest(agronomy.PlantInput{
		Image:             req.Image,
		Language:          lang,
		UserSpecifiedCrop: req.UserSpecifiedCrop,
		Location:          req.location.domain(),
	}, ref))
	if !res.Success {
		s.respondUnavailable(w, r, lang, res)
		return
	}

	analysis, err := agronomy.DecodePlant(res.Payload)
	if err != nil {
		s.respondInternalErr(w, r, lang, fmt.Errorf("decode plant analysis from %s: %w", res.Provider, err))
		return
	}
	analysis = agronomy.EnrichPlant(analysis, ref)

	s.logger.Info("plant analysed",
		"provider", res.Provider,
		"crop", analysis.DetectedCrop,
		"severity", analysis.Severity,
		"from_database", analysis.FromDatabase,
		logField(r),
	)

	respond(w, http.StatusOK, analysisResponse{
		Success:    true,
		Analysis:   analysis,
		AnalyzedAt: time.Now().UTC(),
		Provider:   res.Provider,
	})
}
