// Package agronomy holds the AgroCamer domain logic that sits around the AI
// chain: the structured results the models must return, the prompts that ask
// for them, and the enrichment step that overwrites model guesses with
// authoritative database rows.
//
// Dependency rule: agronomy imports ai only. It never imports db, store or
// api; callers map database rows into Reference themselves.
package agronomy

import "strings"

// ─── LANGUAGE ────────────────────────────────────────────────────────────────

// Language is a supported response language.
type Language string

const (
	French  Language = "fr"
	English Language = "en"
)

// ParseLanguage maps a client language tag to a supported Language.
// Anything that is not English falls back to French.
func ParseLanguage(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(tag, "en") {
		return English
	}
	return French
}

func (l Language) name() string {
	if l == English {
		return "English"
	}
	return "French"
}

// ─── ANALYSIS RESULTS ────────────────────────────────────────────────────────

// Treatment is one recommended remedy for a disease.
type Treatment struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // organic | chemical | cultural
	Description string `json:"description"`
	Dosage      string `json:"dosage,omitempty"`
}

// PlantAnalysis is the plant-health diagnosis returned by analyze-plant.
type PlantAnalysis struct {
	IsHealthy         bool        `json:"is_healthy"`
	DetectedCrop      string      `json:"detected_crop"`
	DetectedCropLocal string      `json:"detected_crop_local,omitempty"`
	Confidence        float64     `json:"confidence"`
	Severity          string      `json:"severity"`
	DiseaseName       string      `json:"disease_name,omitempty"`
	DiseaseNameLocal  string      `json:"disease_name_local,omitempty"`
	Description       string      `json:"description"`
	Symptoms          []string    `json:"symptoms"`
	Causes            []string    `json:"causes"`
	Treatments        []Treatment `json:"treatments"`
	Prevention        []string    `json:"prevention"`

	// FromDatabase is true once enrichment replaced model output with
	// database rows.
	FromDatabase bool `json:"from_database"`
}

// PriceEstimate is a per-unit price range.
type PriceEstimate struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Unit     string  `json:"unit"`
	Market   string  `json:"market,omitempty"`
}

// HarvestAnalysis is the quality grading returned by analyze-harvest.
type HarvestAnalysis struct {
	DetectedCrop      string        `json:"detected_crop"`
	DetectedCropLocal string        `json:"detected_crop_local,omitempty"`
	Grade             string        `json:"grade"`
	QualityScore      float64       `json:"quality_score"`
	Feedback          string        `json:"feedback"`
	Defects           []string      `json:"defects"`
	Recommendations   []string      `json:"recommendations"`
	StorageAdvice     string        `json:"storage_advice,omitempty"`
	EstimatedPrice    PriceEstimate `json:"estimated_price"`
	FromDatabase      bool          `json:"from_database"`
}

// ─── REFERENCE DATA ──────────────────────────────────────────────────────────

// Crop is a crop row as enrichment sees it.
type Crop struct {
	ID        string
	Name      string
	LocalName string
}

// Disease is a disease row with its treatments already joined.
type Disease struct {
	ID         string
	CropID     string // empty when the disease is not crop-specific
	Name       string
	LocalName  string
	Symptoms   []string
	Causes     []string
	Treatments []Treatment
}

// Price is an authoritative market price for one crop and quality grade.
type Price struct {
	CropID   string
	Grade    string
	Min      float64
	Max      float64
	Currency string
	Unit     string
	Market   string
}

// Reference is the per-request snapshot of database rows used to ground
// prompts and enrich results.
type Reference struct {
	Crops    []Crop
	Diseases []Disease
	Prices   []Price
}

// Empty reports whether the snapshot holds no rows at all.
func (r Reference) Empty() bool {
	return len(r.Crops) == 0 && len(r.Diseases) == 0 && len(r.Prices) == 0
}
