package http

import (
	"encoding/json"
	"net/http"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
)

// ErrorResponse is the standardized API error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps a domain error kind onto an HTTP status. Anything without a
// kind is an internal error and its detail stays out of the response body.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	message := err.Error()

	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindInvalidState, domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindTransient:
		status = http.StatusServiceUnavailable
	default:
		logger.Error("Unhandled internal error", "error", err)
		message = "An unexpected error occurred"
	}

	writeJSON(w, status, ErrorResponse{Error: string(kind), Message: message})
}

// userID reads the authenticated user set by the upstream auth gateway.
func userID(r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	return id, id != ""
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "missing X-User-ID header",
		})
	}
	return id, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, domain.Validation("invalid request body"))
		return false
	}
	return true
}
