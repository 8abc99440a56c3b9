package http

import (
	"net/http"

	"chovatel/internal/auth"
	"chovatel/internal/core"
)

// userID resolves the caller, writing a 401 when the request is anonymous.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeNotAuthenticated, "authentication required")
		return "", false
	}
	return id.UserID, true
}

// kind resolves the {kind} path segment, writing a 404 for unknown
// collections.
func (s *Server) kind(w http.ResponseWriter, r *http.Request) (core.Kind, bool) {
	kind, ok := kindFromPath(r.PathValue("kind"))
	if !ok {
		respondError(w, http.StatusNotFound, codeNotFound, "unknown collection")
		return "", false
	}
	return kind, true
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	created, err := s.calculator.Initialize(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if created {
		s.invalidateAndRefresh(userID)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"created": created})
}

func (s *Server) handleAnimalCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		AnimalCount *float64 `json:"animalCount"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	if err := s.calculator.SaveAnimalCount(r.Context(), userID, body.AnimalCount); err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	item, err := s.calculator.AddCustom(r.Context(), userID, kind, body.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateValue(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}

	var body struct {
		Value *float64 `json:"value"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	if err := s.calculator.UpdateValue(r.Context(), userID, kind, r.PathValue("itemId"), body.Value); err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	if err := s.calculator.UpdateNote(r.Context(), userID, kind, r.PathValue("itemId"), body.Note); err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, codeValidationError, "invalid request body")
		return
	}

	if err := s.calculator.Rename(r.Context(), userID, kind, r.PathValue("itemId"), body.Name); err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	kind, ok := s.kind(w, r)
	if !ok {
		return
	}

	if err := s.calculator.Delete(r.Context(), userID, kind, r.PathValue("itemId")); err != nil {
		respondServiceError(w, err)
		return
	}
	s.invalidateAndRefresh(userID)
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
