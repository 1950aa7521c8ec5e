package questbot

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"questbot-backend/internal/ai"
	"questbot-backend/internal/analytics"
	"questbot-backend/internal/personality"
	"questbot-backend/internal/respond"
)

type ChatRequest struct {
	Messages      []ai.Message `json:"messages"`
	Personality   *string      `json:"personality"`
	ReadyForQuest bool         `json:"ready_for_quest"`
}

type Handler struct {
	AI      ai.Completer
	DB      *sql.DB
	Logger  *zap.Logger
	Tokens  *ai.TokenCounter
	Timeout time.Duration
}

func New(completer ai.Completer, db *sql.DB, logger *zap.Logger) *Handler {
	return &Handler{
		AI:     completer,
		DB:     db,
		Logger: logger,
	}
}

// ServeHTTP relays one conversation turn: it picks the persona prompt,
// calls the completion API once and returns the trimmed reply.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	key := personality.DefaultKey
	if req.Personality != nil {
		key = strings.TrimSpace(*req.Personality)
	}
	profile := personality.Resolve(key)

	h.Logger.Info("questbot request",
		zap.String("personality", key),
		zap.String("resolved", profile.Key),
		zap.Bool("ready_for_quest", req.ReadyForQuest),
		zap.Int("message_count", len(req.Messages)),
	)

	system := ai.BuildSystemMessage(profile, req.ReadyForQuest)
	messages := ai.WithSystemMessage(system, req.Messages)

	props := map[string]any{
		"personality":     profile.Key,
		"ready_for_quest": req.ReadyForQuest,
		"message_count":   len(req.Messages),
	}
	if n, ok := h.estimateTokens(messages); ok {
		props["prompt_tokens_est"] = n
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := h.AI.Complete(ctx, messages)
	props["latency_ms"] = time.Since(start).Milliseconds()

	env := analytics.FromRequest(r)
	eventKey := analytics.SourceEventKeyFromRequest(r)

	if err != nil {
		h.Logger.Error("completion failed", zap.String("personality", profile.Key), zap.Error(err))
		h.logEvent(r.Context(), env, "questbot_failed", props, eventKey)
		respond.Error(w, http.StatusInternalServerError, ai.ErrorMessage(err))
		return
	}

	reply := strings.TrimSpace(raw)
	props["reply_len"] = len(reply)

	if req.ReadyForQuest {
		// the reply goes back verbatim either way
		_, draftErr := ai.ParseQuestDraft(reply)
		props["quest_draft_valid"] = draftErr == nil
		if draftErr != nil {
			h.Logger.Warn("quest draft did not validate", zap.String("personality", profile.Key), zap.Error(draftErr))
		}
	}

	h.logEvent(r.Context(), env, "questbot_reply", props, eventKey)

	respond.JSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) estimateTokens(messages []ai.Message) (int, bool) {
	if h.Tokens == nil {
		return 0, false
	}
	n, err := h.Tokens.Count(messages)
	if err != nil {
		h.Logger.Debug("token estimate unavailable", zap.Error(err))
		return 0, false
	}
	return n, true
}

func (h *Handler) logEvent(ctx context.Context, env analytics.Envelope, name string, props map[string]any, key string) {
	if err := analytics.Log(ctx, h.DB, env, name, props, key); err != nil {
		h.Logger.Warn("analytics insert failed", zap.String("event", name), zap.Error(err))
	}
}
