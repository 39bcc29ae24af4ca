package agronomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

// ErrNoUserTurn is returned by ChatRequest when the conversation contains no
// user message to answer.
var ErrNoUserTurn = errors.New("agronomy: conversation has no user message")

// maxChatHistory bounds how many earlier turns are replayed to the model.
const maxChatHistory = 20

// Location is the optional geographic context a client sends with a request.
type Location struct {
	Latitude    *float64
	Longitude   *float64
	Altitude    *float64
	RegionName  string
	ClimateZone string
}

func (l Location) describe() string {
	var parts []string
	if l.RegionName != "" {
		parts = append(parts, "region: "+l.RegionName)
	}
	if l.ClimateZone != "" {
		parts = append(parts, "climate zone: "+l.ClimateZone)
	}
	if l.Latitude != nil && l.Longitude != nil {
		parts = append(parts, fmt.Sprintf("coordinates: %.4f, %.4f", *l.Latitude, *l.Longitude))
	}
	if l.Altitude != nil {
		parts = append(parts, fmt.Sprintf("altitude: %.0f m", *l.Altitude))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Farm location (Cameroon) - " + strings.Join(parts, ", ") + "."
}

// PlantInput is everything analyze-plant needs to build its model request.
type PlantInput struct {
	Image             string
	Language          Language
	UserSpecifiedCrop string
	Location          Location
}

// HarvestInput is everything analyze-harvest needs to build its model request.
type HarvestInput struct {
	Image    string
	Language Language
	Location Location
}

// ChatInput is a conversation to continue.
type ChatInput struct {
	Messages []ai.Message
	Language Language
	Region   string
}

// ─── PLANT HEALTH ────────────────────────────────────────────────────────────

const plantToolName = "report_plant_health"

var plantSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"is_healthy":          map[string]any{"type": "boolean"},
		"detected_crop":       map[string]any{"type": "string", "description": "Common English name of the crop"},
		"detected_crop_local": map[string]any{"type": "string", "description": "Name in the response language"},
		"confidence":          map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"severity":            map[string]any{"type": "string", "enum": []string{"healthy", "low", "medium", "high", "critical"}},
		"disease_name":        map[string]any{"type": "string"},
		"disease_name_local":  map[string]any{"type": "string"},
		"description":         map[string]any{"type": "string"},
		"symptoms":            stringArray,
		"causes":              stringArray,
		"treatments": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string"},
					"type":        map[string]any{"type": "string", "enum": []string{"organic", "chemical", "cultural"}},
					"description": map[string]any{"type": "string"},
					"dosage":      map[string]any{"type": "string"},
				},
				"required": []string{"name", "type", "description"},
			},
		},
		"prevention": stringArray,
	},
	"required": []string{"is_healthy", "detected_crop", "confidence", "severity", "description", "prevention"},
}

const plantShape = `{
  "is_healthy": boolean,
  "detected_crop": "common English crop name",
  "detected_crop_local": "crop name in the response language",
  "confidence": number from 0 to 100,
  "severity": "healthy" | "low" | "medium" | "high" | "critical",
  "disease_name": "disease name or empty when healthy",
  "disease_name_local": "disease name in the response language",
  "description": "short diagnosis",
  "symptoms": ["..."],
  "causes": ["..."],
  "treatments": [{"name": "...", "type": "organic" | "chemical" | "cultural", "description": "...", "dosage": "..."}],
  "prevention": ["..."]
}`

// PlantRequest builds the plant-health request. The returned request
// validates model answers with DecodePlant.
func PlantRequest(in PlantInput, ref Reference) ai.Request {
	system := fmt.Sprintf(`You are an expert plant pathologist advising smallholder farmers in Cameroon.
Identify the crop in the photo and diagnose any disease, pest or nutrient deficiency.
Prefer treatments that are available and affordable in Cameroon, and always give at least one organic option.
Write every free-text field in %s. Keep detected_crop and disease_name in English.`, in.Language.name())

	var user strings.Builder
	user.WriteString("Analyze this plant photo.")
	if c := strings.TrimSpace(in.UserSpecifiedCrop); c != "" {
		fmt.Fprintf(&user, " The farmer says the crop is %s.", c)
	}
	if loc := in.Location.describe(); loc != "" {
		user.WriteString("\n" + loc)
	}

	return ai.Request{
		SystemPrompt: system,
		UserPrompt:   user.String(),
		Image:        in.Image,
		Context:      ref.Context(),
		Tool: &ai.Tool{
			Name:        plantToolName,
			Description: "Report the plant health diagnosis.",
			Parameters:  plantSchema,
			ShapeHint:   plantShape,
		},
		Validate: func(p ai.Payload) error {
			_, err := DecodePlant(p)
			return err
		},
	}
}

// ─── HARVEST QUALITY ─────────────────────────────────────────────────────────

const harvestToolName = "report_harvest_quality"

var harvestSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"detected_crop":       map[string]any{"type": "string"},
		"detected_crop_local": map[string]any{"type": "string"},
		"grade":               map[string]any{"type": "string", "enum": []string{"A", "B", "C"}},
		"quality_score":       map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"feedback":            map[string]any{"type": "string"},
		"defects":             stringArray,
		"recommendations":     stringArray,
		"storage_advice":      map[string]any{"type": "string"},
		"estimated_price": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"min":      map[string]any{"type": "number"},
				"max":      map[string]any{"type": "number"},
				"currency": map[string]any{"type": "string"},
				"unit":     map[string]any{"type": "string"},
			},
		},
	},
	"required": []string{"detected_crop", "grade", "quality_score", "feedback"},
}

const harvestShape = `{
  "detected_crop": "common English crop name",
  "detected_crop_local": "crop name in the response language",
  "grade": "A" | "B" | "C",
  "quality_score": number from 0 to 100,
  "feedback": "short assessment",
  "defects": ["..."],
  "recommendations": ["..."],
  "storage_advice": "...",
  "estimated_price": {"min": number, "max": number, "currency": "XAF", "unit": "kg"}
}`

// HarvestRequest builds the harvest-quality request. The returned request
// validates model answers with DecodeHarvest.
func HarvestRequest(in HarvestInput, ref Reference) ai.Request {
	system := fmt.Sprintf(`You are an agricultural quality inspector grading produce for Cameroonian markets.
Grade A is export or premium market quality, B is standard local market quality, C is processing or animal feed quality.
Estimate a fair local price in XAF. Write every free-text field in %s. Keep detected_crop in English.`, in.Language.name())

	user := "Grade the harvest in this photo."
	if loc := in.Location.describe(); loc != "" {
		user += "\n" + loc
	}

	return ai.Request{
		SystemPrompt: system,
		UserPrompt:   user,
		Image:        in.Image,
		Context:      ref.Context(),
		Tool: &ai.Tool{
			Name:        harvestToolName,
			Description: "Report the harvest quality grading.",
			Parameters:  harvestSchema,
			ShapeHint:   harvestShape,
		},
		Validate: func(p ai.Payload) error {
			_, err := DecodeHarvest(p)
			return err
		},
	}
}

// ─── CHAT ────────────────────────────────────────────────────────────────────

// ChatRequest builds a free-text assistant request from a conversation. The
// last user message is the current turn; up to maxChatHistory earlier turns
// are replayed. contextUsed reports whether reference rows were attached.
func ChatRequest(in ChatInput, ref Reference) (req ai.Request, contextUsed bool, err error) {
	last := lastUserIndex(in.Messages)
	if last < 0 {
		return ai.Request{}, false, ErrNoUserTurn
	}

	start := max(0, last-maxChatHistory)
	history := make([]ai.Message, 0, last-start)
	for _, m := range in.Messages[start:last] {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		history = append(history, m)
	}

	system := fmt.Sprintf(`You are AgroCamer, a friendly agronomy assistant for farmers in Cameroon.
Give practical, concise advice about crops, diseases, planting calendars, soil, storage and market prices.
Prefer locally available inputs and organic options. Answer in %s.`, in.Language.name())
	if r := strings.TrimSpace(in.Region); r != "" {
		system += fmt.Sprintf("\nThe farmer is in the %s region.", r)
	}

	req = ai.Request{
		SystemPrompt: system,
		UserPrompt:   in.Messages[last].Content,
		History:      history,
	}
	if !ref.Empty() {
		req.Context = ref.Context()
		contextUsed = true
	}
	return req, contextUsed, nil
}

// LastUserMessage returns the content of the turn ChatRequest answers.
func LastUserMessage(msgs []ai.Message) string {
	if i := lastUserIndex(msgs); i >= 0 {
		return msgs[i].Content
	}
	return ""
}

func lastUserIndex(msgs []ai.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" && strings.TrimSpace(msgs[i].Content) != "" {
			return i
		}
	}
	return -1
}

var stringArray = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
