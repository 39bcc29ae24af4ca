package telemetry_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nyashahama/agrocamer-backend/internal/telemetry"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []telemetry.Config{
		{Enabled: false, Endpoint: "localhost:4317"},
		{Enabled: true, Endpoint: ""},
	} {
		shutdown, err := telemetry.Init(context.Background(), cfg, logger)
		if err != nil {
			t.Fatalf("Init(%+v): %v", cfg, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	}
}
