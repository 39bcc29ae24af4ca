package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/ai"
	"github.com/nyashahama/agrocamer-backend/internal/store"
)

// ─── POST /api/chat-assistant ─────────────────────────────────────────────────

type chatRequest struct {
	Messages  []ai.Message `json:"messages"`
	Language  string       `json:"language"`
	Region    string       `json:"region"`
	SessionID string       `json:"session_id"`
}

type chatResponse struct {
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	Timestamp           time.Time `json:"timestamp"`
	DatabaseContextUsed bool      `json:"database_context_used"`
	Provider            string    `json:"provider"`
}

// handleChatAssistant answers the last user message of a conversation. When a
// session_id is supplied the question and the reply are handed to the worker
// for persistence; a persistence failure never fails the response.
func (s *Server) handleChatAssistant(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req, maxBody) {
		return
	}
	lang := agronomy.ParseLanguage(req.Language)

	if agronomy.LastUserMessage(req.Messages) == "" {
		respondErr(w, http.StatusBadRequest, agronomy.Message(lang, agronomy.MsgMessagesRequired))
		return
	}

	var sessionID uuid.UUID
	if sid := strings.TrimSpace(req.SessionID); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "session_id must be a UUID")
			return
		}
		sessionID = id
	}

	providers, ok := s.providers(w, r, lang)
	if !ok {
		return
	}

	ctx := r.Context()
	ref := s.reference(ctx, r)
	aiReq, contextUsed, err := agronomy.ChatRequest(agronomy.ChatInput{
		Messages: req.Messages,
		Language: lang,
		Region:   req.Region,
	}, ref)
	if err != nil {
		s.respondInternalErr(w, r, lang, err)
		return
	}

	res := s.chain.Run(ctx, providers, aiReq)
	if !res.Success {
		s.respondUnavailable(w, r, lang, res)
		return
	}
	reply := res.Payload.Text

	if sessionID != uuid.Nil {
		err := s.worker.Enqueue(ctx, store.ChatTurn{
			SessionID:   sessionID,
			Language:    string(lang),
			UserMessage: agronomy.LastUserMessage(req.Messages),
			Reply:       reply,
			Provider:    res.Provider,
			ContextUsed: contextUsed,
		})
		if err != nil {
			s.logger.Warn("chat turn not queued for persistence",
				"session_id", sessionID,
				"error", err,
				logField(r),
			)
		}
	}

	respond(w, http.StatusOK, chatResponse{
		Success:             true,
		Message:             reply,
		Timestamp:           time.Now().UTC(),
		DatabaseContextUsed: contextUsed,
		Provider:            res.Provider,
	})
}

// ─── GET /api/chat-sessions/{sessionID}/messages ──────────────────────────────

type chatMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// handleListChatMessages returns a stored transcript, oldest first.
func (s *Server) handleListChatMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	rows, err := s.q.ListChatMessagesBySession(r.Context(), sessionID)
	if err != nil {
		s.respondInternalErr(w, r, agronomy.French, err)
		return
	}

	out := make([]chatMessageResponse, len(rows))
	for i, m := range rows {
		out[i] = chatMessageResponse{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			Language:  m.Language.String,
			CreatedAt: m.CreatedAt,
		}
	}
	respond(w, http.StatusOK, map[string]any{"session_id": sessionID, "messages": out})
}
