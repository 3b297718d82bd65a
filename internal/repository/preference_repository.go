package repository

import "context"

// PreferenceRepository handles display preferences
type PreferenceRepository interface {
	Theme(ctx context.Context, userID int64) (theme string, found bool, err error)
	SetTheme(ctx context.Context, userID int64, theme string) error
}
