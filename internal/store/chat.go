package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/nyashahama/agrocamer-backend/internal/db"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// ChatTurn is one answered user message: the message that triggered the
// assistant and the reply it produced.
type ChatTurn struct {
	SessionID   uuid.UUID
	Language    string
	UserMessage string
	Reply       string
	Provider    string
	ContextUsed bool
}

type replyMetadata struct {
	Provider            string `json:"provider"`
	DatabaseContextUsed bool   `json:"database_context_used"`
}

// ─── METHODS ─────────────────────────────────────────────────────────────────

// SaveChatTurn inserts the user message and the assistant reply in one
// transaction so a transcript never holds a question without its answer.
func (s *Store) SaveChatTurn(ctx context.Context, t ChatTurn) error {
	meta, err := json.Marshal(replyMetadata{Provider: t.Provider, DatabaseContextUsed: t.ContextUsed})
	if err != nil {
		return fmt.Errorf("SaveChatTurn: marshal metadata: %w", err)
	}
	lang := sql.NullString{String: t.Language, Valid: t.Language != ""}

	return s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := q.InsertChatMessage(ctx, db.InsertChatMessageParams{
			SessionID: t.SessionID,
			Role:      "user",
			Content:   t.UserMessage,
			Language:  lang,
		}); err != nil {
			return fmt.Errorf("SaveChatTurn: insert user message: %w", err)
		}

		if _, err := q.InsertChatMessage(ctx, db.InsertChatMessageParams{
			SessionID: t.SessionID,
			Role:      "assistant",
			Content:   t.Reply,
			Language:  lang,
			Metadata:  pqtype.NullRawMessage{RawMessage: meta, Valid: true},
		}); err != nil {
			return fmt.Errorf("SaveChatTurn: insert assistant reply: %w", err)
		}
		return nil
	})
}
