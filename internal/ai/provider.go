package ai

import (
	"fmt"
	"strings"
)

// WireFormat selects the request builder and response parser for a provider.
type WireFormat int

const (
	// FormatGateway is the OpenAI-style chat-completions format with
	// function calling, spoken by the aggregating gateway.
	FormatGateway WireFormat = iota

	// FormatDirect is the vendor generateContent format used with a direct
	// API key.
	FormatDirect
)

func (f WireFormat) String() string {
	switch f {
	case FormatGateway:
		return "gateway"
	case FormatDirect:
		return "direct"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// MaxDirectKeys is the number of direct-vendor key slots read from config.
const MaxDirectKeys = 5

// Provider is one candidate in a fallback chain. Values are built by
// BuildProviders and never modified afterwards.
type Provider struct {
	Name     string
	Endpoint string
	APIKey   string
	Model    string
	Format   WireFormat
}

// ProviderConfig is the credential set a chain is built from.
type ProviderConfig struct {
	GatewayAPIKey string
	GatewayURL    string
	GatewayModel  string

	// DirectAPIKeys are tried in slice order. Blank entries are skipped but
	// keep their slot number in the provider name.
	DirectAPIKeys []string
	DirectBaseURL string
	DirectModel   string
}

// BuildProviders returns the ordered provider list for cfg: the gateway
// first when its key is set, then one direct provider per configured key.
// A provider without a key is never included. An empty result is valid and
// callers must report it as a configuration problem.
func BuildProviders(cfg ProviderConfig) []Provider {
	providers := make([]Provider, 0, 1+len(cfg.DirectAPIKeys))

	if key := strings.TrimSpace(cfg.GatewayAPIKey); key != "" {
		providers = append(providers, Provider{
			Name:     "gateway",
			Endpoint: cfg.GatewayURL,
			APIKey:   key,
			Model:    cfg.GatewayModel,
			Format:   FormatGateway,
		})
	}

	base := strings.TrimRight(cfg.DirectBaseURL, "/")
	for i, raw := range cfg.DirectAPIKeys {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		providers = append(providers, Provider{
			Name:     fmt.Sprintf("gemini-%d", i+1),
			Endpoint: fmt.Sprintf("%s/models/%s:generateContent", base, cfg.DirectModel),
			APIKey:   key,
			Model:    cfg.DirectModel,
			Format:   FormatDirect,
		})
	}

	return providers
}

// ProviderInfo is the public, credential-free view of a Provider.
type ProviderInfo struct {
	Priority int    `json:"priority"`
	Name     string `json:"name"`
	Model    string `json:"model"`
	Format   string `json:"format"`
}

// Describe lists providers without their keys or endpoints.
func Describe(providers []Provider) []ProviderInfo {
	out := make([]ProviderInfo, len(providers))
	for i, p := range providers {
		out[i] = ProviderInfo{
			Priority: i + 1,
			Name:     p.Name,
			Model:    p.Model,
			Format:   p.Format.String(),
		}
	}
	return out
}
