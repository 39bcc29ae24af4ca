package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ─── DIRECT (generateContent) API SHAPES ─────────────────────────────────────

type directRequest struct {
	SystemInstruction *directContent    `json:"systemInstruction,omitempty"`
	Contents          []directContent   `json:"contents"`
	GenerationConfig  directGenerations `json:"generationConfig"`
}

type directContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []directPart `json:"parts"`
}

type directPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *directInlineData `json:"inline_data,omitempty"`
}

type directInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type directGenerations struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type directResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ─── BUILDER ─────────────────────────────────────────────────────────────────

// buildDirectRequest shapes req into a generateContent body. This format has
// no structured-output mechanism, so the expected JSON shape is described in
// the prompt text itself.
func buildDirectRequest(req Request) directRequest {
	body := directRequest{
		GenerationConfig: directGenerations{Temperature: 0.4, MaxOutputTokens: 4096},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &directContent{Parts: []directPart{{Text: req.SystemPrompt}}}
	}

	for _, m := range req.History {
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "model"
		}
		body.Contents = append(body.Contents, directContent{
			Role:  role,
			Parts: []directPart{{Text: m.Content}},
		})
	}

	parts := []directPart{{Text: userText(req, true)}}
	if req.Image != "" {
		mime, data := splitDataURI(req.Image)
		parts = append(parts, directPart{InlineData: &directInlineData{MimeType: mime, Data: data}})
	}
	body.Contents = append(body.Contents, directContent{Role: "user", Parts: parts})

	return body
}

// ─── PARSER ──────────────────────────────────────────────────────────────────

// jsonObjectPattern is greedy: it spans from the first '{' to the last '}'.
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// parseDirectResponse takes the first text part of the first candidate. For
// structured requests the JSON object embedded in that text is extracted,
// ignoring any surrounding prose.
func parseDirectResponse(body []byte, structured bool) (Payload, error) {
	var parsed directResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Payload{}, fmt.Errorf("%w: unmarshal direct response: %v", ErrUnparseable, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Payload{}, fmt.Errorf("%w: no candidates", ErrUnparseable)
	}

	text := ""
	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.Text != "" {
			text = part.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return Payload{}, fmt.Errorf("%w: empty candidate text", ErrUnparseable)
	}

	if !structured {
		return Payload{Text: strings.TrimSpace(text)}, nil
	}

	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return Payload{}, fmt.Errorf("%w: no JSON object in text (raw: %.200s)", ErrUnparseable, text)
	}
	obj, err := tagProvenance([]byte(match))
	if err != nil {
		return Payload{}, err
	}
	return Payload{JSON: obj}, nil
}
