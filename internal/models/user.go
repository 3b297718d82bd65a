package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	MagicDust    int       `json:"magic_dust"`
	CreatedAt    time.Time `json:"created_at"`
}

// DifficultyStat aggregates a user's games at one grid size.
type DifficultyStat struct {
	AvgTime int `json:"avgTime"`
	WinRate int `json:"winRate"` // percentage, rounded
	Total   int `json:"total"`
}

// DifficultyAggregate is the raw per-label row read from game history.
type DifficultyAggregate struct {
	DifficultyLevel string
	TotalPlayed     int
	Wins            int
	AvgTime         float64
}

// AccountSnapshot is everything the game screen needs about a user.
type AccountSnapshot struct {
	UserID                int64                     `json:"user_id"`
	Username              string                    `json:"username"`
	Balance               int                       `json:"magic_dust"`
	Stats                 map[string]DifficultyStat `json:"stats"` // keyed by grid size, e.g. "4"
	RecommendedDifficulty int                       `json:"recommendation"`
	Title                 string                    `json:"title"`
}

type LeaderboardEntry struct {
	Username  string `json:"username"`
	MagicDust int    `json:"magic_dust"`
}
