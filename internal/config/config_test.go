package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
	"github.com/nyashahama/agrocamer-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agrocamer_test")

	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, 60*time.Second, c.AITimeout)
	assert.Zero(t, c.AIFallbackBackoff)
	assert.Equal(t, "https://api.open-meteo.com/v1", c.WeatherBaseURL)
	assert.Equal(t, 2, c.WorkerCount)
	assert.False(t, c.OTelEnabled)
}

func TestLoad_ProviderConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agrocamer_test")
	t.Setenv("AI_GATEWAY_API_KEY", "gw")
	t.Setenv("GEMINI_API_KEY_2", "second")
	t.Setenv("GEMINI_API_KEY_5", "fifth")

	c, err := config.Load()
	require.NoError(t, err)

	names := []string{}
	for _, p := range ai.BuildProviders(c.AIProviders()) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"gateway", "gemini-2", "gemini-5"}, names)
}

func TestLoad_ValidationJoinsErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENV", "qa")
	t.Setenv("PORT", "http")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "ENV must be")
	assert.Contains(t, err.Error(), "PORT must be")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agrocamer_test")
	t.Setenv("AI_HTTP_TIMEOUT", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}
