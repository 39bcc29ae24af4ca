package worker

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/nyashahama/agrocamer-backend/internal/store"
)

// Saver is the store capability the persistence job needs. *store.Store
// satisfies it.
type Saver interface {
	SaveChatTurn(ctx context.Context, t store.ChatTurn) error
}

// Job persists one answered chat turn.
type Job struct {
	saver  Saver
	logger *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(saver Saver, logger *slog.Logger) *Job {
	return &Job{saver: saver, logger: logger}
}

// Run writes the user message and the assistant reply for t. Any error is
// returned to the Runner, which retries up to MaxRetries times.
func (j *Job) Run(ctx context.Context, t store.ChatTurn) error {
	if err := j.saver.SaveChatTurn(ctx, t); err != nil {
		return fmt.Errorf("job: save chat turn: %w", err)
	}
	j.logger.Debug("job: chat turn persisted",
		"session_id", t.SessionID,
		"provider", t.Provider,
		"reply_chars", utf8.RuneCountInString(t.Reply),
	)
	return nil
}
