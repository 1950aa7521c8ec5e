package questbot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"questbot-backend/internal/ai"
)

type fakeCompleter struct {
	reply string
	err   error

	calls    int
	messages []ai.Message
	deadline bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	f.calls++
	f.messages = messages
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/questbot", strings.NewReader(body))
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestQuestbotReply(t *testing.T) {
	fake := &fakeCompleter{reply: "\n  What treasure do you seek?  \n"}
	h := New(fake, nil, zap.NewNop())

	w := post(t, h, `{
		"messages": [
			{"role": "user", "content": "I want to learn Go"},
			{"role": "assistant", "content": "Why Go?"},
			{"role": "user", "content": "For servers"}
		],
		"personality": "rogue"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["reply"]; got != "What treasure do you seek?" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if fake.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", fake.calls)
	}
	if len(fake.messages) != 4 {
		t.Fatalf("unexpected forwarded messages: %#v", fake.messages)
	}
	sys := fake.messages[0]
	if sys.Role != ai.RoleSystem || !strings.Contains(sys.Content, "Nyx the Efficient") {
		t.Fatalf("unexpected system message: %#v", sys)
	}
	if !strings.Contains(sys.Content, "Do NOT return any JSON") {
		t.Fatalf("expected clarifying prompt by default: %s", sys.Content)
	}
	wantOrder := []string{"I want to learn Go", "Why Go?", "For servers"}
	for i, c := range wantOrder {
		if fake.messages[i+1].Content != c {
			t.Fatalf("history reordered: %#v", fake.messages)
		}
	}
	if fake.deadline {
		t.Fatalf("no timeout configured, context must have no deadline")
	}
}

func TestQuestbotReadyForQuest(t *testing.T) {
	draft := `{"title":"Launch","description":"d","difficulty":"hard","tasks":["a"]}`
	fake := &fakeCompleter{reply: draft}
	h := New(fake, nil, zap.NewNop())

	w := post(t, h, `{"messages": [{"role":"user","content":"robots"}], "personality": "commander", "ready_for_quest": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := decode(t, w)["reply"]; got != draft {
		t.Fatalf("reply must pass through verbatim, got %q", got)
	}
	sys := fake.messages[0].Content
	for _, want := range []string{"valid JSON object", "Commander C.O.D.E.", "Launch Sequence: Engineering Ops"} {
		if !strings.Contains(sys, want) {
			t.Fatalf("expected %q in prompt: %s", want, sys)
		}
	}
}

func TestQuestbotInvalidDraftStillReturned(t *testing.T) {
	fake := &fakeCompleter{reply: "Thy quest: conquer the dragon."}
	h := New(fake, nil, zap.NewNop())

	w := post(t, h, `{"messages": [], "ready_for_quest": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := decode(t, w)["reply"]; got != "Thy quest: conquer the dragon." {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestQuestbotPersonalityDefaults(t *testing.T) {
	cases := map[string]string{
		`{"messages": []}`:                        "Archmage Questolin",
		`{"messages": [], "personality": "lich"}`: "Archmage Questolin",
		`{"messages": [], "personality": "Bard"}`: "Archmage Questolin",
		`{"personality": "  bard  "}`:             "Bardle the Inspiring",
	}
	for body, name := range cases {
		fake := &fakeCompleter{reply: "ok"}
		w := post(t, New(fake, nil, zap.NewNop()), body)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", body, w.Code)
		}
		if !strings.Contains(fake.messages[0].Content, name) {
			t.Fatalf("%s: expected persona %q, got %s", body, name, fake.messages[0].Content)
		}
	}
}

func TestQuestbotCompletionError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("insufficient_quota: You exceeded your current quota")}
	h := New(fake, nil, zap.NewNop())

	w := post(t, h, `{"messages": [{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	got := decode(t, w)
	if got["error"] != "insufficient_quota: You exceeded your current quota" {
		t.Fatalf("unexpected error body: %#v", got)
	}
	if _, ok := got["reply"]; ok {
		t.Fatalf("failure must not carry a reply: %#v", got)
	}
	if fake.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", fake.calls)
	}
}

func TestQuestbotUpstreamErrorMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided: sk-bad.", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	}))
	defer upstream.Close()

	h := New(ai.New("sk-bad", upstream.URL+"/", "gpt-3.5-turbo", 0.8), nil, zap.NewNop())
	w := post(t, h, `{"messages": [{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Incorrect API key provided: sk-bad." {
		t.Fatalf("unexpected error body: %q", got)
	}
}

func TestQuestbotInvalidJSON(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	w := post(t, New(fake, nil, zap.NewNop()), `{"messages": [`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if fake.calls != 0 {
		t.Fatalf("completion must not run for bad input")
	}
}

func TestQuestbotTimeout(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	h := New(fake, nil, zap.NewNop())
	h.Timeout = time.Minute

	post(t, h, `{"messages": []}`)
	if !fake.deadline {
		t.Fatalf("expected deadline on completion context")
	}
}
