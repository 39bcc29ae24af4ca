package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const defaultImageMIME = "image/jpeg"

// userText assembles the user turn: prompt, reference context and, for the
// direct format, the JSON shape the answer must follow.
func userText(req Request, inlineShape bool) string {
	var sb strings.Builder
	sb.WriteString(req.UserPrompt)

	if ctx := strings.TrimSpace(req.Context); ctx != "" {
		sb.WriteString("\n\n")
		sb.WriteString(ctx)
	}

	if inlineShape && req.Tool != nil {
		sb.WriteString("\n\nRespond ONLY with valid JSON matching this exact shape, no markdown fences, no preamble:\n")
		sb.WriteString(req.Tool.ShapeHint)
	}

	return sb.String()
}

// dataURI returns image as a data URI, adding a JPEG prefix to bare base64.
func dataURI(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:" + defaultImageMIME + ";base64," + image
}

// splitDataURI strips a data-URI prefix and returns the MIME type it named
// along with the bare base64 data.
func splitDataURI(image string) (mime, data string) {
	if !strings.HasPrefix(image, "data:") {
		return defaultImageMIME, image
	}
	header, rest, ok := strings.Cut(image, ",")
	if !ok {
		return defaultImageMIME, image
	}
	mime = strings.TrimPrefix(header, "data:")
	mime, _, _ = strings.Cut(mime, ";")
	if mime == "" {
		mime = defaultImageMIME
	}
	return mime, rest
}

// tagProvenance parses raw as a JSON object and sets from_database to false:
// nothing in a model answer comes from the authoritative database until
// enrichment says so.
func tagProvenance(raw []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: result is not a JSON object: %v", ErrUnparseable, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: result is null", ErrUnparseable)
	}
	obj["from_database"] = json.RawMessage("false")

	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("ai: re-marshal result: %w", err)
	}
	return out, nil
}
