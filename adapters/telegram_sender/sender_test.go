package telegram_sender

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jdelaire/tgblocks/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSender_SendSuccess(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":{"message_id":5}}`))
	}))
	defer server.Close()

	s := New(testLogger()).WithBaseURL(server.URL)
	body, err := s.Send(context.Background(), "test-token", core.Outbound{
		Method: "sendPhoto",
		Body:   map[string]any{"chat_id": int64(12345), "photo": "https://x/p.jpg"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/bottest-token/sendPhoto" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody["chat_id"] != float64(12345) || gotBody["photo"] != "https://x/p.jpg" {
		t.Errorf("body = %v", gotBody)
	}
	if string(body) != `{"ok":true,"result":{"message_id":5}}` {
		t.Errorf("response = %s", body)
	}
}

func TestSender_APIErrorIsReturnedAsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	s := New(testLogger()).WithBaseURL(server.URL)
	body, err := s.Send(context.Background(), "test-token", core.Outbound{Method: "sendMessage", Body: map[string]any{"chat_id": 1, "text": "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "chat not found") {
		t.Errorf("body = %s", body)
	}
}

func TestSender_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	s := New(testLogger()).WithBaseURL(server.URL)
	_, err := s.Send(context.Background(), "t", core.Outbound{Method: "sendMessage", Body: map[string]any{}})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status in error", err)
	}
}

func TestSender_NetworkError(t *testing.T) {
	s := New(testLogger()).WithBaseURL("http://127.0.0.1:1")
	_, err := s.Send(context.Background(), "test-token", core.Outbound{Method: "sendMessage", Body: map[string]any{}})
	if err == nil {
		t.Fatal("expected error for network failure")
	}
}

func TestSender_BotTokenInURL(t *testing.T) {
	var requestedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	s := New(testLogger()).WithBaseURL(server.URL)
	s.Send(context.Background(), "my-secret-token", core.Outbound{Method: "deleteMessage", Body: map[string]any{}})

	if requestedPath != "/botmy-secret-token/deleteMessage" {
		t.Errorf("unexpected path: %s", requestedPath)
	}
}
