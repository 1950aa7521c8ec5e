package analytics_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"questbot-backend/internal/analytics"
	"questbot-backend/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbx, err := db.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = dbx.Close() })
	if err := db.Migrate(context.Background(), dbx, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbx
}

func countEvents(t *testing.T, dbx *sql.DB, name string) int {
	t.Helper()
	var n int
	if err := dbx.QueryRow(`SELECT COUNT(*) FROM analytics_events WHERE event_name = $1`, name).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.Header.Set("X-Platform", " WEB ")
	r.Header.Set("X-App-Version", "1.2.0")
	r.Header.Set("X-Device-Locale", "en-US")
	r.Header.Set("X-Session-Id", "s-1")
	r = r.WithContext(analytics.WithUserID(r.Context(), 7))

	env := analytics.FromRequest(r)
	if env.Platform != "web" || env.AppVersion != "1.2.0" || env.DeviceLocale != "en-US" || env.SessionID != "s-1" {
		t.Fatalf("unexpected envelope: %#v", env)
	}
	if env.UserID != 7 {
		t.Fatalf("expected user id from context, got %d", env.UserID)
	}

	r = httptest.NewRequest(http.MethodPost, "/chat", nil)
	r.Header.Set("X-Platform", "toaster")
	if env := analytics.FromRequest(r); env.Platform != "unknown" || env.UserID != 0 {
		t.Fatalf("unexpected envelope: %#v", env)
	}
}

func TestSourceEventKeyFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/events", nil)
	r.Header.Set("X-Source-Event-Key", "fallback")
	if got := analytics.SourceEventKeyFromRequest(r); got != "fallback" {
		t.Fatalf("unexpected key: %q", got)
	}
	r.Header.Set("Idempotency-Key", "primary")
	if got := analytics.SourceEventKeyFromRequest(r); got != "primary" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestLogNilDBIsNoop(t *testing.T) {
	if err := analytics.Log(context.Background(), nil, analytics.Envelope{}, "chat_reply", nil, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLogIdempotent(t *testing.T) {
	dbx := openTestDB(t)
	ctx := context.Background()
	env := analytics.Envelope{Platform: "web"}

	for i := 0; i < 2; i++ {
		if err := analytics.Log(ctx, dbx, env, "quest_forged", map[string]any{"xp": 450}, "key-1"); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	if n := countEvents(t, dbx, "quest_forged"); n != 1 {
		t.Fatalf("expected 1 event for duplicate key, got %d", n)
	}

	// events without a key are never deduplicated
	for i := 0; i < 2; i++ {
		if err := analytics.Log(ctx, dbx, env, "chat_reply", map[string]any{"text_len": 3}, ""); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	if n := countEvents(t, dbx, "chat_reply"); n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}

	var props string
	var userID sql.NullInt64
	if err := dbx.QueryRow(`SELECT properties, user_id FROM analytics_events WHERE event_name = 'quest_forged'`).Scan(&props, &userID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if props != `{"xp":450}` {
		t.Fatalf("unexpected props: %s", props)
	}
	if userID.Valid {
		t.Fatalf("expected anonymous event, got user %d", userID.Int64)
	}
}

func TestClientEventHandler(t *testing.T) {
	dbx := openTestDB(t)
	h := analytics.ClientEventHandler(dbx, zap.NewNop())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"name":"quest_completed","properties":{"xp":450}}`))
	h(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	if n := countEvents(t, dbx, "quest_completed"); n != 1 {
		t.Fatalf("expected stored event, got %d", n)
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"name":"drop_tables"}`))
	h(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{`))
	h(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", w.Code)
	}
}
