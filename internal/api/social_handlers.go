package api

import (
	"fmt"
	"net/http"

	"github.com/vytor/workshop/internal/errors"
)

func (s *Server) handleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Social.GlobalLeaderboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleFriendsLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Social.FriendsLeaderboard(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FriendName string `json:"friendName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Social.SendRequest(r.Context(), userIDFromContext(r.Context()), req.FriendName); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Request sent to %s!", req.FriendName),
	})
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.Social.PendingRequests(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleAcceptFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequesterID int64 `json:"requesterId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.RequesterID <= 0 {
		handleError(w, r, errors.NewValidationError("requesterId", "is required"))
		return
	}

	if err := s.Social.Accept(r.Context(), userIDFromContext(r.Context()), req.RequesterID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
