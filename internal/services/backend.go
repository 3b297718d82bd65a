package services

import (
	"context"

	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/puzzle"
)

// Backend exposes the services as the puzzle session's collaborator.
type Backend struct {
	Accounts AccountService
	Games    GameService
	Currency CurrencyService
}

var _ puzzle.Collaborator = (*Backend)(nil)

func (b *Backend) GetAccountSnapshot(ctx context.Context, userID int64) (*models.AccountSnapshot, error) {
	return b.Accounts.Snapshot(ctx, userID)
}

func (b *Backend) SaveSessionOutcome(ctx context.Context, outcome models.SessionOutcome) (*models.SaveOutcomeResult, error) {
	return b.Games.SaveOutcome(ctx, outcome)
}

func (b *Backend) SpendCurrency(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error) {
	return b.Currency.Spend(ctx, req)
}

func (b *Backend) GetHistory(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error) {
	return b.Games.History(ctx, userID, limit)
}
