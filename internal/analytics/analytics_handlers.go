package analytics

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"questbot-backend/internal/respond"
)

// Events the front end may report about its local quest board.
var clientEvents = map[string]bool{
	"app_opened":      true,
	"quest_added":     true,
	"quest_completed": true,
	"quest_deleted":   true,
}

// ClientEventHandler stores one front-end event:
// {"name": "quest_completed", "properties": {"xp": 450}}.
func ClientEventHandler(dbx *sql.DB, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name       string         `json:"name"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if !clientEvents[body.Name] {
			respond.Error(w, http.StatusBadRequest, "unknown event")
			return
		}
		if body.Properties == nil {
			body.Properties = map[string]any{}
		}

		if err := Log(r.Context(), dbx, FromRequest(r), body.Name, body.Properties, SourceEventKeyFromRequest(r)); err != nil {
			logger.Warn("analytics insert failed", zap.String("event", body.Name), zap.Error(err))
		}

		respond.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
