package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/repository"
)

type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository implementation
func NewPreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Theme(ctx context.Context, userID int64) (string, bool, error) {
	var theme string
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT theme_choice FROM user_preferences WHERE user_id = ?`, userID).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("preference_repo").Error("failed to read theme: %v", err)
		return "", false, err
	}
	return theme, true, nil
}

func (r *preferenceRepository) SetTheme(ctx context.Context, userID int64, theme string) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("saving theme: user_id=%d, theme=%s", userID, theme)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO user_preferences (user_id, theme_choice)
VALUES (?, ?)
ON CONFLICT(user_id) DO UPDATE SET theme_choice = excluded.theme_choice
`, userID, theme)
	if err != nil {
		log.Error("failed to save theme: %v", err)
	}
	return err
}
