package worker

import (
	"context"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
)

// OutcomeSaver is the persistence call a SaveOutcomeJob makes.
type OutcomeSaver interface {
	SaveSessionOutcome(ctx context.Context, outcome models.SessionOutcome) (*models.SaveOutcomeResult, error)
}

// SaveOutcomeJob persists one finished attempt. OnDone, if set, receives
// the result or the error from the worker goroutine.
type SaveOutcomeJob struct {
	Saver   OutcomeSaver
	Outcome models.SessionOutcome
	OnDone  func(*models.SaveOutcomeResult, error)
}

func (j *SaveOutcomeJob) Name() string { return "save_outcome" }

func (j *SaveOutcomeJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":    j.Outcome.UserID,
		"difficulty": j.Outcome.DifficultyLabel,
	})
	log.Debug("saving outcome: won=%t, time=%d", j.Outcome.IsWon, j.Outcome.ElapsedSeconds)

	res, err := j.Saver.SaveSessionOutcome(ctx, j.Outcome)
	if j.OnDone != nil {
		j.OnDone(res, err)
	}
	return err
}
