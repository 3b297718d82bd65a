package repository

import (
	"context"
	"time"

	"github.com/vytor/workshop/internal/models"
)

// AchievementRepository handles the achievement catalogue and unlocks
type AchievementRepository interface {
	List(ctx context.Context) ([]models.Achievement, error)
	Get(ctx context.Context, id int64) (*models.Achievement, error)
	UnlockedAt(ctx context.Context, userID int64) (map[int64]time.Time, error)
	// Unlock reports whether the achievement was newly unlocked.
	Unlock(ctx context.Context, userID, achievementID int64) (bool, error)
}
