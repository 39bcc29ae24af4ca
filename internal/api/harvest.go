package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
)

// ─── POST /api/analyze-harvest ────────────────────────────────────────────────

type analyzeHarvestRequest struct {
	Image    string `json:"image"`
	Language string `json:"language"`
	location
}

// handleAnalyzeHarvest grades harvest quality from a photo and substitutes
// the authoritative market price when one exists for the crop and grade.
func (s *Server) handleAnalyzeHarvest(w http.ResponseWriter, r *http.Request) {
	var req analyzeHarvestRequest
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

	res := s.chain.Run(ctx, providers, agronomy.HarvestRequest(agronomy.HarvestInput{
		Image:    req.Image,
		Language: lang,
		Location: req.location.domain(),
	}, ref))
	if !res.Success {
		s.respondUnavailable(w, r, lang, res)
		return
	}

	analysis, err := agronomy.DecodeHarvest(res.Payload)
	if err != nil {
		s.respondInternalErr(w, r, lang, fmt.Errorf("decode harvest analysis from %s: %w", res.Provider, err))
		return
	}
	analysis = agronomy.EnrichHarvest(analysis, ref)

	s.logger.Info("harvest graded",
		"provider", res.Provider,
		"crop", analysis.DetectedCrop,
		"grade", analysis.Grade,
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
