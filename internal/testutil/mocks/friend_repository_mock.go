package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/workshop/internal/models"
)

// MockFriendRepository is a mock implementation of repository.FriendRepository
type MockFriendRepository struct {
	mock.Mock
}

func (m *MockFriendRepository) Between(ctx context.Context, a, b int64) (*models.Friendship, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendRepository) Create(ctx context.Context, userID, friendID int64) (int64, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFriendRepository) Pending(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) Accept(ctx context.Context, requesterID, userID int64) (bool, error) {
	args := m.Called(ctx, requesterID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) Leaderboard(ctx context.Context, userID int64, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}
