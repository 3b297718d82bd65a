package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/repository"
)

type storyRepository struct {
	db *sql.DB
}

// NewStoryRepository creates a new StoryRepository implementation
func NewStoryRepository(db *sql.DB) repository.StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Chapter(ctx context.Context, userID int64) (int, bool, error) {
	var chapter int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT current_chapter FROM story_progress WHERE user_id = ?`, userID).Scan(&chapter)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("story_repo").Error("failed to read chapter: user_id=%d, err=%v", userID, err)
		return 0, false, err
	}
	return chapter, true, nil
}

func (r *storyRepository) SetChapter(ctx context.Context, userID int64, chapter int) error {
	log := logger.FromContext(ctx).WithPrefix("story_repo")
	log.Debug("saving chapter: user_id=%d, chapter=%d", userID, chapter)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO story_progress (user_id, current_chapter, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET current_chapter = excluded.current_chapter, updated_at = excluded.updated_at
`, userID, chapter)
	if err != nil {
		log.Error("failed to save chapter: %v", err)
	}
	return err
}

func (r *storyRepository) Delete(ctx context.Context, userID int64) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM story_progress WHERE user_id = ?`, userID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("story_repo").Error("failed to reset story: %v", err)
	}
	return err
}
