package repository

import "context"

// StoryRepository handles per-user story progress
type StoryRepository interface {
	// Chapter returns the saved chapter; found is false when the user has
	// no progress row.
	Chapter(ctx context.Context, userID int64) (chapter int, found bool, err error)
	SetChapter(ctx context.Context, userID int64, chapter int) error
	Delete(ctx context.Context, userID int64) error
}
