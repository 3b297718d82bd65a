package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT id, name, description, icon_url FROM achievements ORDER BY id`)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.IconURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *achievementRepository) Get(ctx context.Context, id int64) (*models.Achievement, error) {
	var a models.Achievement
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT id, name, description, icon_url FROM achievements WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Description, &a.IconURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("achievement_repo").Error("failed to get achievement %d: %v", id, err)
		return nil, err
	}
	return &a, nil
}

func (r *achievementRepository) UnlockedAt(ctx context.Context, userID int64) (map[int64]time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("loading unlocks: user_id=%d", userID)

	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT achievement_id, unlocked_at FROM user_achievements WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to load unlocks: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var id int64
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		out[id] = at
	}
	return out, rows.Err()
}

func (r *achievementRepository) Unlock(ctx context.Context, userID, achievementID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT OR IGNORE INTO user_achievements (user_id, achievement_id)
VALUES (?, ?)
`, userID, achievementID)
	if err != nil {
		log.Error("failed to unlock achievement %d for user %d: %v", achievementID, userID, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Debug("achievement unlocked: user_id=%d, achievement_id=%d", userID, achievementID)
	}
	return n > 0, nil
}
