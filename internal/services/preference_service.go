package services

import (
	"context"
	"strings"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/repository"
)

// DefaultTheme is reported for users who never chose one.
const DefaultTheme = "santa"

const maxThemeLength = 32

// PreferenceService handles the display theme
type PreferenceService interface {
	Theme(ctx context.Context, userID int64) (string, error)
	SetTheme(ctx context.Context, userID int64, theme string) (string, error)
}

type preferenceService struct {
	repo repository.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

func (s *preferenceService) Theme(ctx context.Context, userID int64) (string, error) {
	theme, found, err := s.repo.Theme(ctx, userID)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if !found {
		return DefaultTheme, nil
	}
	return theme, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, userID int64, theme string) (string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" || len(theme) > maxThemeLength {
		return "", errors.NewValidationError("theme", "must be 1 to 32 characters")
	}
	if err := s.repo.SetTheme(ctx, userID, theme); err != nil {
		return "", errors.NewInternalError(err)
	}
	return theme, nil
}
