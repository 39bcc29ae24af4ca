package agronomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

// ErrInvalidResult is returned when a model answer parses as JSON but lacks
// fields the client relies on.
var ErrInvalidResult = errors.New("agronomy: invalid analysis result")

var severities = map[string]bool{
	"healthy":  true,
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// DecodePlant decodes and validates a plant-health payload.
func DecodePlant(p ai.Payload) (PlantAnalysis, error) {
	var a PlantAnalysis
	if err := p.Decode(&a); err != nil {
		return PlantAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}

	a.DetectedCrop = strings.TrimSpace(a.DetectedCrop)
	if a.DetectedCrop == "" {
		return PlantAnalysis{}, fmt.Errorf("%w: detected_crop is empty", ErrInvalidResult)
	}

	a.Severity = strings.ToLower(strings.TrimSpace(a.Severity))
	if a.Severity == "" && a.IsHealthy {
		a.Severity = "healthy"
	}
	if !severities[a.Severity] {
		return PlantAnalysis{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidResult, a.Severity)
	}

	if a.Confidence < 0 || a.Confidence > 100 {
		return PlantAnalysis{}, fmt.Errorf("%w: confidence %v out of range", ErrInvalidResult, a.Confidence)
	}

	a.DiseaseName = strings.TrimSpace(a.DiseaseName)
	a.Symptoms = nonNil(a.Symptoms)
	a.Causes = nonNil(a.Causes)
	a.Prevention = nonNil(a.Prevention)
	if a.Treatments == nil {
		a.Treatments = []Treatment{}
	}
	return a, nil
}

// DecodeHarvest decodes and validates a harvest-quality payload.
func DecodeHarvest(p ai.Payload) (HarvestAnalysis, error) {
	var h HarvestAnalysis
	if err := p.Decode(&h); err != nil {
		return HarvestAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}

	h.Grade = strings.ToUpper(strings.TrimSpace(h.Grade))
	switch h.Grade {
	case "A", "B", "C":
	default:
		return HarvestAnalysis{}, fmt.Errorf("%w: grade %q is not A, B or C", ErrInvalidResult, h.Grade)
	}

	if h.QualityScore < 0 || h.QualityScore > 100 {
		return HarvestAnalysis{}, fmt.Errorf("%w: quality_score %v out of range", ErrInvalidResult, h.QualityScore)
	}

	h.DetectedCrop = strings.TrimSpace(h.DetectedCrop)
	h.Defects = nonNil(h.Defects)
	h.Recommendations = nonNil(h.Recommendations)
	return h, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
