package agronomy_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

func payload(s string) ai.Payload {
	return ai.Payload{JSON: json.RawMessage(s)}
}

func TestDecodePlant(t *testing.T) {
	a, err := agronomy.DecodePlant(payload(`{"is_healthy":true,"detected_crop":" maize ","confidence":88,"description":"ok","prevention":[],"from_database":false}`))
	require.NoError(t, err)

	assert.Equal(t, "maize", a.DetectedCrop)
	assert.Equal(t, float64(88), a.Confidence)
	assert.Equal(t, "healthy", a.Severity)
	assert.NotNil(t, a.Symptoms)
	assert.NotNil(t, a.Treatments)
}

func TestDecodePlant_Rejects(t *testing.T) {
	tests := map[string]string{
		"no crop":          `{"is_healthy":true,"confidence":50,"severity":"healthy"}`,
		"unknown severity": `{"detected_crop":"maize","confidence":50,"severity":"terrible"}`,
		"confidence range": `{"detected_crop":"maize","confidence":150,"severity":"low"}`,
		"wrong type":       `{"detected_crop":["maize"]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := agronomy.DecodePlant(payload(body))
			assert.ErrorIs(t, err, agronomy.ErrInvalidResult)
		})
	}

	_, err := agronomy.DecodePlant(ai.Payload{Text: "free text"})
	assert.ErrorIs(t, err, agronomy.ErrInvalidResult)
}

func TestDecodeHarvest(t *testing.T) {
	h, err := agronomy.DecodeHarvest(payload(`{"grade":" a ","feedback":"good","quality_score":91}`))
	require.NoError(t, err)
	assert.Equal(t, "A", h.Grade)
	assert.Equal(t, []string{}, h.Defects)

	for _, body := range []string{`{"grade":"D"}`, `{"feedback":"good"}`, `{"grade":"B","quality_score":-1}`} {
		_, err := agronomy.DecodeHarvest(payload(body))
		assert.ErrorIs(t, err, agronomy.ErrInvalidResult, body)
	}
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, agronomy.English, agronomy.ParseLanguage("en-GB"))
	assert.Equal(t, agronomy.French, agronomy.ParseLanguage("fr"))
	assert.Equal(t, agronomy.French, agronomy.ParseLanguage(""))
	assert.Equal(t, agronomy.French, agronomy.ParseLanguage("pidgin"))
}

func TestMessage_FallsBackToFrench(t *testing.T) {
	assert.Equal(t, "An image is required.", agronomy.Message(agronomy.English, agronomy.MsgImageRequired))
	assert.Equal(t,
		agronomy.Message(agronomy.French, agronomy.MsgInternal),
		agronomy.Message(agronomy.Language("de"), agronomy.MsgInternal))
}
