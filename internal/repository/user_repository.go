package repository

import (
	"context"

	"github.com/vytor/workshop/internal/models"
)

// UserRepository handles account and balance data access
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string, startingDust int) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Balance(ctx context.Context, id int64) (int, error)
	// AddDust credits amount and returns the new balance.
	AddDust(ctx context.Context, id int64, amount int) (int, error)
	// SpendDust debits amount only if the balance covers it. ok is false and
	// balance is the unchanged balance when it does not.
	SpendDust(ctx context.Context, id int64, amount int) (balance int, ok bool, err error)
	TopByDust(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}
