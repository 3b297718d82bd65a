package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStoryRepository is a mock implementation of repository.StoryRepository
type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Chapter(ctx context.Context, userID int64) (int, bool, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockStoryRepository) SetChapter(ctx context.Context, userID int64, chapter int) error {
	args := m.Called(ctx, userID, chapter)
	return args.Error(0)
}

func (m *MockStoryRepository) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
