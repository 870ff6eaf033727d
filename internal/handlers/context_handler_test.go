package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"territoryd/internal/handlers"
)

type ctxKey int

const lobbyIDKey ctxKey = iota

func TestContextHandlerInjectsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(handlers.ContextHandler{
		Handler: slog.NewJSONHandler(&buf, nil),
		Keys:    []any{lobbyIDKey},
	})

	ctx := context.WithValue(context.Background(), lobbyIDKey, slog.Int("lobby_id", 3))
	logger.InfoContext(ctx, "lobby tick")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if entry["lobby_id"] != float64(3) {
		t.Fatalf("lobby_id = %v, want 3", entry["lobby_id"])
	}
}

func TestContextHandlerOmitsMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(handlers.ContextHandler{
		Handler: slog.NewJSONHandler(&buf, nil),
		Keys:    []any{lobbyIDKey},
	})

	logger.InfoContext(context.Background(), "no lobby yet")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if _, ok := entry["lobby_id"]; ok {
		t.Fatal("lobby_id present, want absent when not set in context")
	}
}
