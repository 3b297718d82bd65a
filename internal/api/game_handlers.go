package api

import (
	"net/http"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
)

// handleAnalytics returns the per-size stats and the recommended size.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Accounts.Snapshot(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleSaveGame records an outcome reported by a client that ran the
// puzzle itself. The user is always the authenticated caller.
func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var outcome models.SessionOutcome
	if err := decodeJSON(r, &outcome); err != nil {
		handleError(w, r, err)
		return
	}
	outcome.UserID = userIDFromContext(r.Context())

	res, err := s.Games.SaveOutcome(r.Context(), outcome)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("game saved: difficulty=%s, won=%t, unlocks=%d", outcome.DifficultyLabel, outcome.IsWon, len(res.NewUnlocks))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.HistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.Games.History(r.Context(), userIDFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Achievements.Cabinet(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleBuyPowerUp debits dust for a client-side power-up. A short balance
// is reported in the body with a 200, as clients expect.
func (s *Server) handleBuyPowerUp(w http.ResponseWriter, r *http.Request) {
	var req models.SpendRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	req.UserID = userIDFromContext(r.Context())

	res, err := s.Currency.Spend(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
