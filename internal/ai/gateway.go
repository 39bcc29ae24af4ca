package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The gateway exposes an OpenAI-compatible /v1/chat/completions endpoint with
// function calling, so the shapes below are the standard OpenAI chat format.

// ─── GATEWAY API SHAPES ──────────────────────────────────────────────────────

type gatewayRequest struct {
	Model      string           `json:"model"`
	Messages   []gatewayMessage `json:"messages"`
	Tools      []gatewayTool    `json:"tools,omitempty"`
	ToolChoice *gatewayChoice   `json:"tool_choice,omitempty"`
}

// gatewayMessage content is either a plain string or a list of parts when an
// image is attached.
type gatewayMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type gatewayPart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *gatewayImageURL `json:"image_url,omitempty"`
}

type gatewayImageURL struct {
	URL string `json:"url"`
}

type gatewayTool struct {
	Type     string          `json:"type"`
	Function gatewayFunction `json:"function"`
}

type gatewayFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type gatewayChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content   *string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// ─── BUILDER ─────────────────────────────────────────────────────────────────

// buildGatewayRequest shapes req into a chat-completions body for model.
func buildGatewayRequest(model string, req Request) gatewayRequest {
	messages := make([]gatewayMessage, 0, len(req.History)+2)
	messages = append(messages, gatewayMessage{Role: "system", Content: req.SystemPrompt})

	for _, m := range req.History {
		messages = append(messages, gatewayMessage{Role: gatewayRole(m.Role), Content: m.Content})
	}

	text := userText(req, false)
	if req.Image == "" {
		messages = append(messages, gatewayMessage{Role: "user", Content: text})
	} else {
		messages = append(messages, gatewayMessage{
			Role: "user",
			Content: []gatewayPart{
				{Type: "text", Text: text},
				{Type: "image_url", ImageURL: &gatewayImageURL{URL: dataURI(req.Image)}},
			},
		})
	}

	body := gatewayRequest{Model: model, Messages: messages}

	if req.Tool != nil {
		body.Tools = []gatewayTool{{
			Type: "function",
			Function: gatewayFunction{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				Parameters:  req.Tool.Parameters,
			},
		}}
		choice := &gatewayChoice{Type: "function"}
		choice.Function.Name = req.Tool.Name
		body.ToolChoice = choice
	}

	return body
}

func gatewayRole(role string) string {
	if role == "assistant" || role == "model" {
		return "assistant"
	}
	return "user"
}

// ─── PARSER ──────────────────────────────────────────────────────────────────

// parseGatewayResponse extracts the first tool call's arguments for
// structured requests, or the first choice's text otherwise.
func parseGatewayResponse(body []byte, structured bool) (Payload, error) {
	var parsed gatewayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Payload{}, fmt.Errorf("%w: unmarshal gateway response: %v", ErrUnparseable, err)
	}
	if len(parsed.Choices) == 0 {
		return Payload{}, fmt.Errorf("%w: no choices", ErrUnparseable)
	}
	msg := parsed.Choices[0].Message

	if !structured {
		if msg.Content == nil || strings.TrimSpace(*msg.Content) == "" {
			return Payload{}, fmt.Errorf("%w: empty message content", ErrUnparseable)
		}
		return Payload{Text: strings.TrimSpace(*msg.Content)}, nil
	}

	if len(msg.ToolCalls) == 0 {
		return Payload{}, fmt.Errorf("%w: no tool call", ErrUnparseable)
	}
	obj, err := tagProvenance([]byte(msg.ToolCalls[0].Function.Arguments))
	if err != nil {
		return Payload{}, err
	}
	return Payload{JSON: obj}, nil
}
