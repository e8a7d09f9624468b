package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/metrics"
)

const maxBodyBytes = 1 << 20

// outcomeOK is the outcome reported for reads and plain writes that have no
// richer success variant.
const outcomeOK = "ok"

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindPermission:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeOutcome renders a success variant together with its payload fields.
func writeOutcome(w http.ResponseWriter, status int, op, outcome string, payload map[string]any) {
	metrics.RecordOutcome(op, outcome)

	body := map[string]any{"outcome": outcome}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeError renders a typed failure. Storage failures are logged; the
// other kinds are expected outcomes of user input.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := apperror.KindOf(err)
	metrics.RecordOutcome(op, string(kind))

	if kind == apperror.KindStorage {
		slog.Error("request failed", "op", op, "error", err, "path", r.URL.Path)
	} else {
		slog.Debug("request rejected", "op", op, "kind", kind, "error", err)
	}

	writeJSON(w, statusFor(kind), map[string]any{
		"error": errorBody{Kind: string(kind), Message: apperror.MessageOf(err)},
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": errorBody{Kind: string(apperror.KindNotFound), Message: "route not found"},
	})
}

// decodeJSON reads a JSON request body into v. Malformed bodies are
// validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation(op, "request body is required")
		}
		return apperror.Validation(op, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, op, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Validation(op, name+" must be a non-negative integer")
	}
	return n, nil
}
