package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/workshop/internal/services"
	"github.com/vytor/workshop/internal/testutil/mocks"
)

func TestStoryStatusDefaultsToChapterOne(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Chapter", mock.Anything, int64(1)).Return(0, false, nil)

	status, err := services.NewStoryService(repo).Status(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Chapter)
	assert.Contains(t, status.Text, "workshop is quiet")
}

func TestStoryFirstWinOffersBlizzardChoice(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Chapter", mock.Anything, int64(1)).Return(0, false, nil)
	repo.On("SetChapter", mock.Anything, int64(1), 1).Return(nil)

	update, err := services.NewStoryService(repo).Advance(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, update.Chapter)
	assert.Contains(t, update.Text, "BLIZZARD")
	require.Len(t, update.Choices, 2)
	assert.Equal(t, services.ChoiceHardMode, update.Choices[0].Action)
	assert.Equal(t, services.ChoiceEasyMode, update.Choices[1].Action)
	assert.Nil(t, update.NewDifficulty)
	repo.AssertExpectations(t)
}

func TestStoryRepeatWinInChapterOneDoesNotSave(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Chapter", mock.Anything, int64(1)).Return(1, true, nil)

	update, err := services.NewStoryService(repo).Advance(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, update.Choices, 2)
	repo.AssertNotCalled(t, "SetChapter", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoryChoices(t *testing.T) {
	tests := []struct {
		choice   string
		wantSize int
		wantText string
	}{
		{services.ChoiceHardMode, 6, "TURBULENCE"},
		{services.ChoiceEasyMode, 3, "steered around"},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			repo := new(mocks.MockStoryRepository)
			repo.On("Chapter", mock.Anything, int64(1)).Return(1, true, nil)
			repo.On("SetChapter", mock.Anything, int64(1), 2).Return(nil)

			update, err := services.NewStoryService(repo).Advance(context.Background(), 1, tt.choice)
			require.NoError(t, err)
			assert.Equal(t, 2, update.Chapter)
			require.NotNil(t, update.NewDifficulty)
			assert.Equal(t, tt.wantSize, *update.NewDifficulty)
			assert.Contains(t, update.Text, tt.wantText)
			repo.AssertExpectations(t)
		})
	}
}

func TestStoryChapterTwoWinFinishes(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Chapter", mock.Anything, int64(1)).Return(2, true, nil)
	repo.On("SetChapter", mock.Anything, int64(1), 3).Return(nil)

	update, err := services.NewStoryService(repo).Advance(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 3, update.Chapter)
	assert.Contains(t, update.Text, "delivered the presents")
	assert.Empty(t, update.Choices)
	repo.AssertExpectations(t)
}

func TestStoryRejectsChoices(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Chapter", mock.Anything, int64(1)).Return(2, true, nil)
	repo.On("Chapter", mock.Anything, int64(2)).Return(1, true, nil)
	svc := services.NewStoryService(repo)

	_, err := svc.Advance(context.Background(), 1, services.ChoiceHardMode)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Advance(context.Background(), 2, "teleport")
	requireAppError(t, err, http.StatusBadRequest)

	repo.AssertNotCalled(t, "SetChapter", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoryReset(t *testing.T) {
	repo := new(mocks.MockStoryRepository)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, services.NewStoryService(repo).Reset(context.Background(), 1))
	repo.AssertExpectations(t)
}
