package api

import (
	"context"
	"net/http"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/play"
	"github.com/vytor/workshop/internal/services"
)

// Readier reports whether a dependency can serve traffic.
type Readier interface {
	Ready(ctx context.Context) error
}

type Server struct {
	DB           Readier
	Accounts     services.AccountService
	Games        services.GameService
	Achievements services.AchievementService
	Currency     services.CurrencyService
	Story        services.StoryService
	Social       services.SocialService
	Preferences  services.PreferenceService
	Play         *play.Manager
	Hub          *play.Hub
	HistoryLimit int
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("registered user %s (id=%d)", user.Username, user.ID)
	setUserCookie(w, user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("user %s logged in", user.Username)
	setUserCookie(w, user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"userId":    user.ID,
		"username":  user.Username,
		"magicDust": user.MagicDust,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearUserCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.Accounts.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
