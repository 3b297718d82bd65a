package repository

import (
	"context"

	"github.com/vytor/workshop/internal/models"
)

// FriendRepository handles friend requests and friend leaderboards
type FriendRepository interface {
	// Between finds a friendship row in either direction, or nil.
	Between(ctx context.Context, a, b int64) (*models.Friendship, error)
	Create(ctx context.Context, userID, friendID int64) (int64, error)
	Pending(ctx context.Context, userID int64) ([]models.FriendRequest, error)
	// Accept marks requesterID's pending request to userID accepted and
	// reports whether one existed.
	Accept(ctx context.Context, requesterID, userID int64) (bool, error)
	Leaderboard(ctx context.Context, userID int64, limit int) ([]models.LeaderboardEntry, error)
}
