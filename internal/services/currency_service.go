package services

import (
	"context"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

const declinedReason = "Not enough Magic Dust!"

// CurrencyService handles Magic Dust spending
type CurrencyService interface {
	Spend(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error)
}

type currencyService struct {
	users repository.UserRepository
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(users repository.UserRepository) CurrencyService {
	return &currencyService{users: users}
}

// Spend debits req.Amount. A short balance is not an error: the result
// reports Success false with the unchanged balance.
func (s *currencyService) Spend(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("spend request: user_id=%d, amount=%d", req.UserID, req.Amount)

	if req.Amount <= 0 {
		return nil, errors.NewValidationError("cost", "must be positive")
	}

	user, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", req.UserID)
	}

	balance, ok, err := s.users.SpendDust(ctx, req.UserID, req.Amount)
	if err != nil {
		log.Error("failed to spend dust: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !ok {
		return &models.SpendResult{Success: false, NewBalance: balance, Reason: declinedReason}, nil
	}
	return &models.SpendResult{Success: true, NewBalance: balance}, nil
}
