package quest

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"questbot-backend/internal/analytics"
	"questbot-backend/internal/respond"
)

type ChatInput struct {
	Message       *string  `json:"message"`
	GenerateQuest *LaxBool  `json:"generate_quest"`
}

type ChatResponse struct {
	Response string  `json:"response"`
	Quest    *Record `json:"quest,omitempty"`
}

// ChatHandler answers POST /chat without contacting any remote system.
func ChatHandler(dbx *sql.DB, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ChatInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond.Error(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
			return
		}
		if body.Message == nil {
			respond.Error(w, http.StatusUnprocessableEntity, "message is required")
			return
		}
		generate := body.GenerateQuest != nil && bool(*body.GenerateQuest)

		env := analytics.FromRequest(r)
		key := analytics.SourceEventKeyFromRequest(r)

		if generate {
			q := Forged()

			props := map[string]any{
				"xp":         q.XP,
				"task_count": len(q.Tasks),
				"text_len":   len(*body.Message),
			}
			if err := analytics.Log(r.Context(), dbx, env, "quest_forged", props, key); err != nil {
				logger.Warn("analytics insert failed", zap.String("event", "quest_forged"), zap.Error(err))
			}

			logger.Debug("quest forged", zap.Int("xp", q.XP))
			respond.JSON(w, http.StatusOK, ChatResponse{Response: ForgedAnnouncement, Quest: &q})
			return
		}

		props := map[string]any{"text_len": len(*body.Message)}
		if err := analytics.Log(r.Context(), dbx, env, "chat_reply", props, key); err != nil {
			logger.Warn("analytics insert failed", zap.String("event", "chat_reply"), zap.Error(err))
		}

		respond.JSON(w, http.StatusOK, ChatResponse{Response: Greeting(*body.Message)})
	}
}
