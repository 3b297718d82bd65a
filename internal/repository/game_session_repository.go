package repository

import (
	"context"

	"github.com/vytor/workshop/internal/models"
)

// GameSessionRepository handles finished puzzle attempts
type GameSessionRepository interface {
	Insert(ctx context.Context, outcome models.SessionOutcome) (int64, error)
	History(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error)
	StatsByDifficulty(ctx context.Context, userID int64) ([]models.DifficultyAggregate, error)
}
