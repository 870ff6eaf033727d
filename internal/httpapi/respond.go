package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "httpapi: encoding response", slog.Any("error", err))
	}
}
