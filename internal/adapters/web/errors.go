package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"frigora/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with the given status.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors to HTTP responses. Anything unrecognised is a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidRange):
		writeError(w, r, err.Error(), "INVALID_RANGE", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidItem):
		writeError(w, r, err.Error(), "INVALID_ITEM", http.StatusBadRequest)
	case errors.Is(err, core.ErrUnknownCategory):
		writeError(w, r, err.Error(), "UNKNOWN_CATEGORY", http.StatusBadRequest)
	case errors.Is(err, core.ErrUnknownStatus):
		writeError(w, r, err.Error(), "UNKNOWN_STATUS", http.StatusBadRequest)
	case errors.Is(err, core.ErrItemNotFound):
		writeError(w, r, "item not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrNoActiveLoad):
		writeError(w, r, "inventory not loaded; call GET /api/inventory first", "NO_ACTIVE_LOAD", http.StatusConflict)
	default:
		h.logger.Error("request failed", "request_id", requestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
