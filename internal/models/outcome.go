package models

import "time"

// SessionOutcome is the terminal result of one puzzle attempt.
type SessionOutcome struct {
	UserID          int64  `json:"userId"`
	DifficultyLabel string `json:"difficulty"`
	Moves           int    `json:"moves"`
	ElapsedSeconds  int    `json:"time"`
	IsWon           bool   `json:"isWon"`
}

// SaveOutcomeResult reports what the backend credited for an outcome.
type SaveOutcomeResult struct {
	RewardAmount *int          `json:"dustEarned,omitempty"`
	NewUnlocks   []Achievement `json:"newUnlocks"`
	Balance      int           `json:"balance"`
}

// GameRecord is a stored outcome.
type GameRecord struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	DifficultyLevel  string    `json:"difficulty_level"`
	MovesCount       int       `json:"moves_count"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	IsWon            bool      `json:"is_won"`
	PlayedAt         time.Time `json:"played_at"`
}

type SpendRequest struct {
	UserID int64 `json:"userId"`
	Amount int   `json:"cost"`
}

// SpendResult carries the authoritative balance after a spend attempt.
type SpendResult struct {
	Success    bool   `json:"success"`
	NewBalance int    `json:"newBalance"`
	Reason     string `json:"message,omitempty"`
}
