package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

func sampleNote() Notification {
	return Notification{
		PlayerID:        "luka-doncic",
		GeneratedAt:     time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC),
		ExpectedScore:   44.3,
		PreviousScore:   stats.Ptr(39.1),
		Delta:           5.2,
		Threshold:       3.0,
		ExpectedMinutes: 34.5,
		LowerCI:         38.1,
		UpperCI:         50.5,
		Notes:           "Recent scoring surge",
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("path should contain sendMessage, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), sampleNote()); err != nil {
		t.Fatalf("Notify should succeed: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("wrong chat_id: %#v", received)
	}
	text := received["text"]
	for _, want := range []string{"luka-doncic", "44.3", "moved +5.2", "38.1 - 50.5", "Recent scoring surge"} {
		if !strings.Contains(text, want) {
			t.Fatalf("alert text missing %q:\n%s", want, text)
		}
	}
}

func TestTelegramNotifierRejectionIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), sampleNote()); err == nil {
		t.Fatal("ok=false should surface an error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("rejection should not be retried, got %d attempts", got)
	}
}

func TestTelegramNotifierRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), sampleNote()); err != nil {
		t.Fatalf("second attempt should have succeeded: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("want exactly one retry, got %d attempts", got)
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
