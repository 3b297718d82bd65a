package services

import (
	"context"
	"strings"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/puzzle"
	"github.com/vytor/workshop/internal/repository"
)

const maxHistoryLimit = 50

// GameService records finished attempts and pays out rewards
type GameService interface {
	SaveOutcome(ctx context.Context, outcome models.SessionOutcome) (*models.SaveOutcomeResult, error)
	History(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error)
}

type gameService struct {
	users        repository.UserRepository
	games        repository.GameSessionRepository
	achievements AchievementService
	txr          repository.Transactor
	historyLimit int
}

// NewGameService creates a new GameService. historyLimit is used when a
// caller asks for a non-positive number of records.
func NewGameService(
	users repository.UserRepository,
	games repository.GameSessionRepository,
	achievements AchievementService,
	txr repository.Transactor,
	historyLimit int,
) GameService {
	return &gameService{
		users:        users,
		games:        games,
		achievements: achievements,
		txr:          txr,
		historyLimit: historyLimit,
	}
}

func (s *gameService) SaveOutcome(ctx context.Context, o models.SessionOutcome) (*models.SaveOutcomeResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": o.UserID, "difficulty": o.DifficultyLabel})
	log.Debug("saving outcome: moves=%d, time=%d, won=%t", o.Moves, o.ElapsedSeconds, o.IsWon)

	if err := validateOutcome(o); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, o.UserID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", o.UserID)
	}

	result := &models.SaveOutcomeResult{NewUnlocks: []models.Achievement{}}
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.games.Insert(ctx, o); err != nil {
			return err
		}

		balance := user.MagicDust
		if o.IsWon {
			reward := puzzle.Reward(o.ElapsedSeconds)
			credited, err := s.users.AddDust(ctx, o.UserID, reward)
			if err != nil {
				return err
			}
			balance = credited
			result.RewardAmount = &reward
		}
		result.Balance = balance

		unlocked, err := s.achievements.Evaluate(ctx, o, balance)
		if err != nil {
			return err
		}
		result.NewUnlocks = append(result.NewUnlocks, unlocked...)
		return nil
	})
	if err != nil {
		log.Error("failed to save outcome: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("outcome saved: won=%t, balance=%d, unlocks=%d", o.IsWon, result.Balance, len(result.NewUnlocks))
	return result, nil
}

func validateOutcome(o models.SessionOutcome) error {
	switch {
	case o.UserID <= 0:
		return errors.NewValidationError("userId", "is required")
	case strings.TrimSpace(o.DifficultyLabel) == "":
		return errors.NewValidationError("difficulty", "is required")
	case o.Moves < 0:
		return errors.NewValidationError("moves", "cannot be negative")
	case o.ElapsedSeconds < 0:
		return errors.NewValidationError("time", "cannot be negative")
	}
	return nil
}

func (s *gameService) History(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.games.History(ctx, userID, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load history: user_id=%d, err=%v", userID, err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}
