package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

func fullConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		GatewayAPIKey: "gw-key",
		GatewayURL:    "https://gateway.example/v1/chat/completions",
		GatewayModel:  "google/gemini-2.5-flash",
		DirectAPIKeys: []string{"k1", "k2", "k3", "k4", "k5"},
		DirectBaseURL: "https://vendor.example/v1beta/",
		DirectModel:   "gemini-2.0-flash",
	}
}

func names(ps []ai.Provider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestBuildProviders_GatewayFirstThenDeclaredOrder(t *testing.T) {
	ps := ai.BuildProviders(fullConfig())

	require.Len(t, ps, 6)
	assert.Equal(t, []string{"gateway", "gemini-1", "gemini-2", "gemini-3", "gemini-4", "gemini-5"}, names(ps))

	assert.Equal(t, ai.FormatGateway, ps[0].Format)
	assert.Equal(t, "https://gateway.example/v1/chat/completions", ps[0].Endpoint)
	assert.Equal(t, "google/gemini-2.5-flash", ps[0].Model)

	for _, p := range ps[1:] {
		assert.Equal(t, ai.FormatDirect, p.Format)
		assert.Equal(t, "https://vendor.example/v1beta/models/gemini-2.0-flash:generateContent", p.Endpoint)
	}
	assert.Equal(t, "k3", ps[3].APIKey)
}

func TestBuildProviders_SkipsUnsetCredentials(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		direct  []string
		want    []string
	}{
		{"no gateway", "", []string{"a", "b"}, []string{"gemini-1", "gemini-2"}},
		{"gaps keep slot numbers", "gw", []string{"", "b", " ", "d"}, []string{"gateway", "gemini-2", "gemini-4"}},
		{"gateway only", "gw", nil, []string{"gateway"}},
		{"blank gateway", "   ", []string{"", "", "c"}, []string{"gemini-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig()
			cfg.GatewayAPIKey = tt.gateway
			cfg.DirectAPIKeys = tt.direct

			ps := ai.BuildProviders(cfg)
			assert.Equal(t, tt.want, names(ps))
			for _, p := range ps {
				assert.NotEmpty(t, p.APIKey, "provider %s has no key", p.Name)
			}
		})
	}
}

func TestBuildProviders_NothingConfiguredIsEmpty(t *testing.T) {
	ps := ai.BuildProviders(ai.ProviderConfig{})
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

func TestDescribe_OmitsCredentials(t *testing.T) {
	info := ai.Describe(ai.BuildProviders(fullConfig()))

	require.Len(t, info, 6)
	assert.Equal(t, ai.ProviderInfo{Priority: 1, Name: "gateway", Model: "google/gemini-2.5-flash", Format: "gateway"}, info[0])
	assert.Equal(t, "direct", info[5].Format)
	assert.Equal(t, 6, info[5].Priority)
}

func TestStatusPolicy_DefaultTable(t *testing.T) {
	p := ai.DefaultPolicy()

	for _, status := range []int{429, 402, 500, 503, 529} {
		assert.Equal(t, ai.ClassRetryable, p.Classify(status), "status %d", status)
	}
	for _, status := range []int{400, 401, 403, 404, 422, 502, 504} {
		assert.Equal(t, ai.ClassFatal, p.Classify(status), "status %d", status)
	}
}

func TestStatusPolicy_Injectable(t *testing.T) {
	p := ai.StatusPolicy{Retryable: map[int]bool{400: true}}
	assert.Equal(t, ai.ClassRetryable, p.Classify(400))
	assert.Equal(t, ai.ClassFatal, p.Classify(429))
}
