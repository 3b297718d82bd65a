package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/puzzle"
)

type playResponse struct {
	SessionID string          `json:"session_id"`
	Accepted  bool            `json:"accepted"`
	State     puzzle.Snapshot `json:"state"`
}

type sizeRequest struct {
	Size int `json:"size"`
}

// handlePlayState returns the caller's live puzzle, creating an idle one
// at the default size on first use.
func (s *Server) handlePlayState(w http.ResponseWriter, r *http.Request) {
	ls := s.Play.GetOrCreate(userIDFromContext(r.Context()), puzzle.DefaultSize)
	writeJSON(w, http.StatusOK, playResponse{SessionID: ls.ID, Accepted: true, State: ls.Snapshot()})
}

func (s *Server) handlePlayStart(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req sizeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ls := s.Play.GetOrCreate(userIDFromContext(r.Context()), req.Size)
	snap := ls.Start(req.Size)
	log.Info("puzzle started: session=%s, size=%d", ls.ID, snap.Size)
	writeJSON(w, http.StatusOK, playResponse{SessionID: ls.ID, Accepted: true, State: snap})
}

func (s *Server) handlePlayDifficulty(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ls := s.Play.GetOrCreate(userIDFromContext(r.Context()), req.Size)
	snap, ok := ls.SetDifficulty(req.Size)
	if !ok {
		handleError(w, r, errors.NewConflictError("cannot change difficulty while a puzzle is running"))
		return
	}
	writeJSON(w, http.StatusOK, playResponse{SessionID: ls.ID, Accepted: true, State: snap})
}

// handlePlayMove slides one tile. A tile that cannot move is not an error;
// the response reports accepted false with the unchanged state.
func (s *Server) handlePlayMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Index == nil {
		handleError(w, r, errors.NewValidationError("index", "is required"))
		return
	}

	ls := s.Play.Get(userIDFromContext(r.Context()))
	if ls == nil {
		handleError(w, r, puzzle.ErrSessionNotActive)
		return
	}
	snap, ok := ls.Move(*req.Index)
	writeJSON(w, http.StatusOK, playResponse{SessionID: ls.ID, Accepted: ok, State: snap})
}

func (s *Server) handlePlayAbandon(w http.ResponseWriter, r *http.Request) {
	ls := s.Play.Get(userIDFromContext(r.Context()))
	if ls == nil {
		handleError(w, r, puzzle.ErrSessionNotActive)
		return
	}
	snap, ok := ls.Abandon()
	writeJSON(w, http.StatusOK, playResponse{SessionID: ls.ID, Accepted: ok, State: snap})
}

func (s *Server) handlePlayPowerUp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	kind := puzzle.PowerUpKind(chi.URLParam(r, "kind"))

	ls := s.Play.Get(userIDFromContext(r.Context()))
	if ls == nil {
		handleError(w, r, puzzle.ErrSessionNotActive)
		return
	}

	act, snap, err := ls.ActivatePowerUp(r.Context(), kind)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("power-up %s used: cost=%d, balance=%d", act.Kind, act.Cost, act.Balance)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": ls.ID,
		"activation": act,
		"state":      snap,
	})
}

// handlePlayWS streams the caller's session events.
func (s *Server) handlePlayWS(w http.ResponseWriter, r *http.Request) {
	s.Hub.ServeWS(w, r, strconv.FormatInt(userIDFromContext(r.Context()), 10))
}
