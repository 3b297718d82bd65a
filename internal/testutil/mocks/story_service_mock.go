package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/workshop/internal/models"
)

// MockStoryService is a mock implementation of services.StoryService
type MockStoryService struct {
	mock.Mock
}

func (m *MockStoryService) Status(ctx context.Context, userID int64) (*models.StoryStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryStatus), args.Error(1)
}

func (m *MockStoryService) Advance(ctx context.Context, userID int64, choice string) (*models.StoryUpdate, error) {
	args := m.Called(ctx, userID, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryUpdate), args.Error(1)
}

func (m *MockStoryService) Reset(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
