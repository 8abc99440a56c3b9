package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"chovatel/internal/auth"
	"chovatel/internal/core"
	"chovatel/internal/services"
)

// Error codes returned in JSON error bodies.
const (
	codeNotAuthenticated = "NOT_AUTHENTICATED"
	codeValidationError  = "VALIDATION_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeOperationFailed  = "OPERATION_FAILED"
	codeInternalError    = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// respondServiceError maps service errors onto the HTTP surface. Unknown
// errors become an opaque 500; the detail stays in the log.
func respondServiceError(w http.ResponseWriter, err error) {
	if ve, ok := core.AsValidationError(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]errorBody{
			"error": {Code: codeValidationError, Message: ve.Message, Field: ve.Field},
		})
		return
	}
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, codeNotAuthenticated, "authentication required")
	case errors.Is(err, services.ErrItemNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "item not found")
	case errors.Is(err, services.ErrNotCustom):
		respondError(w, http.StatusBadRequest, codeOperationFailed, "only custom items can be renamed or deleted")
	default:
		slog.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

const maxBodyBytes = 64 * 1024

// decodeBody decodes a JSON request body into dst, rejecting unknown fields
// and oversized payloads.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// kindFromPath maps the URL collection segment to the domain kind.
func kindFromPath(segment string) (core.Kind, bool) {
	switch segment {
	case "expenses":
		return core.KindExpense, true
	case "incomes":
		return core.KindIncome, true
	default:
		return "", false
	}
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.Index(ip, ","); i >= 0 {
			return strings.TrimSpace(ip[:i])
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
