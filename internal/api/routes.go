package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/leaderboard", s.handleGlobalLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Get("/analytics", s.handleAnalytics)
			r.Post("/game/save", s.handleSaveGame)
			r.Get("/history", s.handleHistory)
			r.Get("/achievements", s.handleAchievements)
			r.Post("/powerup/buy", s.handleBuyPowerUp)

			r.Get("/story", s.handleStory)
			r.Post("/story/update", s.handleStoryUpdate)
			r.Post("/story/reset", s.handleStoryReset)

			r.Get("/preferences", s.handleGetPreferences)
			r.Post("/preferences", s.handleSetPreferences)

			r.Get("/friends/leaderboard", s.handleFriendsLeaderboard)
			r.Post("/friends/request", s.handleFriendRequest)
			r.Get("/friends/requests", s.handlePendingRequests)
			r.Post("/friends/accept", s.handleAcceptFriend)

			r.Route("/play", func(r chi.Router) {
				r.Get("/", s.handlePlayState)
				r.Post("/start", s.handlePlayStart)
				r.Post("/difficulty", s.handlePlayDifficulty)
				r.Post("/move", s.handlePlayMove)
				r.Post("/abandon", s.handlePlayAbandon)
				r.Post("/powerup/{kind}", s.handlePlayPowerUp)
				r.Get("/ws", s.handlePlayWS)
			})
		})
	})

	return r
}
