// Package ai calls third-party language models through an ordered chain of
// providers. A chain is built per request from an explicit ProviderConfig,
// every provider speaks one of two wire formats (gateway chat completions or
// direct generateContent), and failures are classified as retryable or fatal
// to decide whether the next provider is tried.
package ai

import (
	"encoding/json"
	"errors"
)

// ErrNoProviders is reported when a chain is run with an empty provider list.
var ErrNoProviders = errors.New("ai: no providers configured")

// ErrUnparseable is returned by the response parsers when a 2xx body does not
// contain a usable result.
var ErrUnparseable = errors.New("ai: response did not contain a usable result")

// Message is one prior conversation turn. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool describes the structured result a request expects. The gateway path
// sends Parameters as a function schema and forces the call; the direct path
// has no structured-output mechanism and gets ShapeHint inlined in the prompt.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	ShapeHint   string
}

// Request is one logical model request, independent of wire format.
type Request struct {
	SystemPrompt string
	UserPrompt   string

	// Image is base64, with or without a data-URI prefix. Empty for text-only.
	Image string

	// Context is reference data appended to the user prompt.
	Context string

	// History holds earlier turns of a conversation, oldest first. The
	// current turn is UserPrompt.
	History []Message

	// Tool is nil for free-text answers.
	Tool *Tool

	// Validate, when set, rejects a parsed payload that lacks required
	// fields. A rejection is treated like an unparseable body.
	Validate func(Payload) error
}

// Structured reports whether the request asks for a JSON object result.
func (r Request) Structured() bool {
	return r.Tool != nil
}

// Payload is a parsed model answer. JSON is set for structured requests,
// Text for free-text ones.
type Payload struct {
	JSON json.RawMessage
	Text string
}

// Decode unmarshals the structured payload into dst.
func (p Payload) Decode(dst any) error {
	if len(p.JSON) == 0 {
		return ErrUnparseable
	}
	return json.Unmarshal(p.JSON, dst)
}
