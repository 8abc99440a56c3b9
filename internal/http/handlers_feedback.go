package http

import (
	"net/http"

	"chovatel/internal/core"
)

// handleFeedback accepts a feedback submission and enqueues it for mail
// delivery. Anyone may submit; authentication is not required.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb core.Feedback
	if err := decodeBody(w, r, &fb); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	if err := s.feedback.Submit(r.Context(), fb); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}
