package api

import (
	"net/http"

	"github.com/vytor/workshop/internal/logger"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	theme, err := s.Preferences.Theme(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"theme": theme})
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	theme, err := s.Preferences.SetTheme(r.Context(), userIDFromContext(r.Context()), req.Theme)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "theme": theme})
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	status, err := s.Story.Status(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleStoryUpdate applies a choice, or with no choice records a win
// against the current chapter.
func (s *Server) handleStoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChoiceMade string `json:"choiceMade"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	update, err := s.Story.Advance(r.Context(), userIDFromContext(r.Context()), req.ChoiceMade)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (s *Server) handleStoryReset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := s.Story.Reset(r.Context(), userIDFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("story reset")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Story reset to Chapter 1"})
}
