package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/workshop/internal/models"
)

// MockCollaborator is a mock implementation of puzzle.Collaborator
type MockCollaborator struct {
	mock.Mock
}

func (m *MockCollaborator) GetAccountSnapshot(ctx context.Context, userID int64) (*models.AccountSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountSnapshot), args.Error(1)
}

func (m *MockCollaborator) SaveSessionOutcome(ctx context.Context, outcome models.SessionOutcome) (*models.SaveOutcomeResult, error) {
	args := m.Called(ctx, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SaveOutcomeResult), args.Error(1)
}

func (m *MockCollaborator) SpendCurrency(ctx context.Context, req models.SpendRequest) (*models.SpendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpendResult), args.Error(1)
}

func (m *MockCollaborator) GetHistory(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRecord), args.Error(1)
}
