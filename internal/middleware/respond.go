package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeError renders the same error envelope as the API handlers.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"kind": kind, "message": message},
	})
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
