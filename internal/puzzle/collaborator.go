package puzzle

import (
	"context"
	"errors"

	"github.com/vytor/workshop/internal/models"
)

var (
	ErrSessionNotActive        = errors.New("puzzle: session is not active")
	ErrPowerUpUnavailable      = errors.New("puzzle: power-up cannot be used right now")
	ErrUnknownPowerUp          = errors.New("puzzle: unknown power-up")
	ErrInsufficientFunds       = errors.New("puzzle: insufficient funds")
	ErrCollaboratorUnavailable = errors.New("puzzle: collaborator unavailable")
)

// Collaborator is the account and persistence backend. Sessions never hold
// a balance of their own; every figure comes back from these calls.
type Collaborator interface {
	GetAccountSnapshot(ctx context.Context, userID int64) (*models.AccountSnapshot, error)
	SaveSessionOutcome(ctx context.Context, outcome models.SessionOutcome) (*models.SaveOutcomeResult, error)
	SpendCurrency(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error)
	GetHistory(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error)
}

// Wallet is the slice of Collaborator a PowerUpController needs.
type Wallet interface {
	SpendCurrency(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error)
}
