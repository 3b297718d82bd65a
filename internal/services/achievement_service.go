package services

import (
	"context"
	"strings"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

// Seeded achievement ids.
const (
	AchievementSpeedSleigh   int64 = 1
	AchievementMagicHoarder  int64 = 2
	AchievementSantaMaster   int64 = 3
	AchievementFirstDelivery int64 = 4
)

const (
	speedSleighSeconds = 60
	hoarderBalance     = 500
)

// AchievementService handles the trophy cabinet and unlock rules
type AchievementService interface {
	Cabinet(ctx context.Context, userID int64) ([]models.TrophyEntry, error)
	// Evaluate unlocks whatever the outcome earned and returns only the
	// achievements that were not already held.
	Evaluate(ctx context.Context, outcome models.SessionOutcome, balance int) ([]models.Achievement, error)
}

type achievementService struct {
	repo repository.AchievementRepository
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(repo repository.AchievementRepository) AchievementService {
	return &achievementService{repo: repo}
}

func (s *achievementService) Cabinet(ctx context.Context, userID int64) ([]models.TrophyEntry, error) {
	log := logger.FromContext(ctx)

	all, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}
	unlocked, err := s.repo.UnlockedAt(ctx, userID)
	if err != nil {
		log.Error("failed to load unlocks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	cabinet := make([]models.TrophyEntry, 0, len(all))
	for _, a := range all {
		entry := models.TrophyEntry{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			at := at
			entry.IsUnlocked = true
			entry.UnlockedAt = &at
		}
		cabinet = append(cabinet, entry)
	}
	return cabinet, nil
}

func (s *achievementService) Evaluate(ctx context.Context, o models.SessionOutcome, balance int) ([]models.Achievement, error) {
	var earned []int64
	if o.IsWon {
		earned = append(earned, AchievementFirstDelivery)
		if o.ElapsedSeconds < speedSleighSeconds {
			earned = append(earned, AchievementSpeedSleigh)
		}
		if strings.Contains(o.DifficultyLabel, "10x10") {
			earned = append(earned, AchievementSantaMaster)
		}
	}
	if balance >= hoarderBalance {
		earned = append(earned, AchievementMagicHoarder)
	}

	unlocks := []models.Achievement{}
	for _, id := range earned {
		fresh, err := s.repo.Unlock(ctx, o.UserID, id)
		if err != nil {
			return nil, err
		}
		if !fresh {
			continue
		}
		a, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if a != nil {
			logger.FromContext(ctx).Info("achievement unlocked: user_id=%d, name=%s", o.UserID, a.Name)
			unlocks = append(unlocks, *a)
		}
	}
	return unlocks, nil
}
