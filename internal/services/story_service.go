package services

import (
	"context"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

const (
	ChapterEngine   = 1
	ChapterStorm    = 2
	ChapterFinished = 3

	ChoiceHardMode = "hard_mode"
	ChoiceEasyMode = "easy_mode"
)

const (
	hardModeSize = 6
	easyModeSize = 3
)

var chapterStatusText = map[int]string{
	ChapterEngine:   "The workshop is quiet. Too quiet. Santa needs your help to get the engine running...",
	ChapterStorm:    "⚠️ We are navigating the storm! Keep the sleigh steady!",
	ChapterFinished: "🎄 SUCCESS! You saved Christmas. The workshop is fully operational.",
}

const (
	blizzardText = "The engine is running, but a massive BLIZZARD is approaching on the radar! What should we do?"
	hardModeText = "⚠️ TURBULENCE! You climbed above the storm. The sleigh is shaking! Stabilize the cargo!"
	easyModeText = "You steered around the storm. Smooth sailing, but we lost time. Perform a quick check."
	deliveryText = "🎄 SUCCESS! You stabilized the sleigh and delivered the presents! You are a Hero of the Workshop."
)

var blizzardChoices = []models.StoryChoice{
	{Text: "Fly Above (Risk It!)", Action: ChoiceHardMode, NextChapter: ChapterStorm},
	{Text: "Go Around (Play Safe)", Action: ChoiceEasyMode, NextChapter: ChapterStorm},
}

// StoryService drives the three-chapter workshop narrative
type StoryService interface {
	Status(ctx context.Context, userID int64) (*models.StoryStatus, error)
	// Advance applies a choice, or with an empty choice records a won
	// puzzle against the current chapter.
	Advance(ctx context.Context, userID int64, choice string) (*models.StoryUpdate, error)
	Reset(ctx context.Context, userID int64) error
}

type storyService struct {
	repo repository.StoryRepository
}

// NewStoryService creates a new StoryService
func NewStoryService(repo repository.StoryRepository) StoryService {
	return &storyService{repo: repo}
}

func (s *storyService) Status(ctx context.Context, userID int64) (*models.StoryStatus, error) {
	chapter, found, err := s.repo.Chapter(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !found {
		chapter = ChapterEngine
	}
	text, ok := chapterStatusText[chapter]
	if !ok {
		text = chapterStatusText[ChapterEngine]
	}
	return &models.StoryStatus{Chapter: chapter, Text: text}, nil
}

func (s *storyService) Advance(ctx context.Context, userID int64, choice string) (*models.StoryUpdate, error) {
	log := logger.FromContext(ctx)
	log.Debug("advancing story: user_id=%d, choice=%q", userID, choice)

	chapter, found, err := s.repo.Chapter(ctx, userID)
	if err != nil {
		log.Error("failed to read story progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !found {
		chapter = ChapterEngine
	}

	update := &models.StoryUpdate{Chapter: chapter, Choices: []models.StoryChoice{}}
	save := !found

	switch {
	case choice != "":
		if chapter != ChapterEngine {
			return nil, errors.NewValidationError("choice", "no choice is pending")
		}
		var size int
		switch choice {
		case ChoiceHardMode:
			update.Text, size = hardModeText, hardModeSize
		case ChoiceEasyMode:
			update.Text, size = easyModeText, easyModeSize
		default:
			return nil, errors.NewValidationError("choice", "must be 'hard_mode' or 'easy_mode'")
		}
		update.Chapter = ChapterStorm
		update.NewDifficulty = &size
		save = true

	case chapter == ChapterEngine:
		update.Text = blizzardText
		update.Choices = blizzardChoices

	case chapter == ChapterStorm:
		update.Text = deliveryText
		update.Chapter = ChapterFinished
		save = true

	default:
		update.Text = chapterStatusText[ChapterFinished]
	}

	if save {
		if err := s.repo.SetChapter(ctx, userID, update.Chapter); err != nil {
			log.Error("failed to save story progress: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}
	return update, nil
}

func (s *storyService) Reset(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("story reset: user_id=%d", userID)
	return nil
}
