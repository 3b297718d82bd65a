package play

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/puzzle"
	"github.com/vytor/workshop/internal/worker"
)

// Event names pushed to clients besides the session's own events.
const (
	EventOutcomeSaved  = "outcome_saved"
	EventOutcomeFailed = "outcome_failed"
	EventStory         = "story"
	EventPowerUp       = "powerup"
)

// Submitter queues background jobs.
type Submitter interface {
	Submit(job worker.Job) error
}

// StoryAdvancer moves a player's story on after a win.
type StoryAdvancer interface {
	Advance(ctx context.Context, userID int64, choice string) (*models.StoryUpdate, error)
}

// LiveSession hosts one player's puzzle on the server. Every touch of the
// underlying session happens under mu, including timer callbacks and
// ticks, so the session sees a single logical thread.
type LiveSession struct {
	ID     string
	UserID int64

	mu       sync.Mutex
	session  *puzzle.Session
	powerUps *puzzle.PowerUpController

	backend puzzle.Collaborator
	pool    Submitter
	story   StoryAdvancer
	pub     Publisher
	log     *logger.Logger

	tickInterval time.Duration
	closed       chan struct{}
	closeOnce    sync.Once
}

func (s *LiveSession) topic() string {
	return strconv.FormatInt(s.UserID, 10)
}

// AfterFunc implements puzzle.Scheduler; fn runs holding the session lock.
func (s *LiveSession) AfterFunc(d time.Duration, fn func()) puzzle.Task {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	})
}

// OnSessionEvent implements puzzle.Listener. It is called with mu held.
func (s *LiveSession) OnSessionEvent(e puzzle.Event) {
	snap := s.session.Snapshot()
	s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: string(e.Type), State: snap, Data: e.Outcome})

	if e.Outcome != nil {
		s.submitOutcome(*e.Outcome)
	}
}

func (s *LiveSession) submitOutcome(o puzzle.Outcome) {
	outcome := models.SessionOutcome{
		UserID:          s.UserID,
		DifficultyLabel: o.DifficultyLabel,
		Moves:           o.Moves,
		ElapsedSeconds:  o.TimeTaken,
		IsWon:           o.IsWon,
	}
	job := &worker.SaveOutcomeJob{
		Saver:   s.backend,
		Outcome: outcome,
		OnDone: func(res *models.SaveOutcomeResult, err error) {
			s.outcomeSaved(outcome, res, err)
		},
	}
	if err := s.pool.Submit(job); err != nil {
		// The attempt is over either way; only its bookkeeping is lost.
		s.log.Warn("outcome not queued: %v", err)
		s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: EventOutcomeFailed, Data: err.Error()})
	}
}

// outcomeSaved runs on a worker goroutine.
func (s *LiveSession) outcomeSaved(o models.SessionOutcome, res *models.SaveOutcomeResult, err error) {
	if err != nil {
		s.log.Warn("outcome not saved: %v", err)
		s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: EventOutcomeFailed, Data: err.Error()})
		return
	}
	s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: EventOutcomeSaved, Data: res})

	if !o.IsWon || s.story == nil {
		return
	}
	ctx := logger.NewContext(context.Background(), s.log)
	update, err := s.story.Advance(ctx, s.UserID, "")
	if err != nil {
		s.log.Warn("story not advanced: %v", err)
		return
	}
	s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: EventStory, Data: update})
}

// Start begins a new attempt at size, forfeiting any running one.
func (s *LiveSession) Start(size int) puzzle.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.StartGame(size)
	s.startTicking(s.session.Generation())
	s.log.Info("attempt started: size=%d", s.session.Size())
	return s.session.Snapshot()
}

// SetDifficulty changes the idle board size.
func (s *LiveSession) SetDifficulty(size int) (puzzle.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.session.SetDifficulty(size)
	return s.session.Snapshot(), ok
}

func (s *LiveSession) Move(index int) (puzzle.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.session.AttemptMove(index)
	return s.session.Snapshot(), ok
}

func (s *LiveSession) Abandon() (puzzle.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.session.Abandon()
	return s.session.Snapshot(), ok
}

// Tick advances the countdown by one second.
func (s *LiveSession) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Tick()
}

func (s *LiveSession) Snapshot() puzzle.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

// ActivatePowerUp pays for and applies kind.
func (s *LiveSession) ActivatePowerUp(ctx context.Context, kind puzzle.PowerUpKind) (*puzzle.Activation, puzzle.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	act, err := s.powerUps.Activate(ctx, kind)
	if err == nil {
		s.pub.Publish(s.topic(), Message{SessionID: s.ID, Event: EventPowerUp, State: s.session.Snapshot(), Data: act})
	}
	return act, s.session.Snapshot(), err
}

// Close forfeits any running attempt and stops the tick loop.
func (s *LiveSession) Close() {
	s.mu.Lock()
	s.session.Abandon()
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.closed) })
}

// startTicking runs the countdown for generation gen. Called with mu held.
func (s *LiveSession) startTicking(gen uint64) {
	if s.tickInterval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(s.tickInterval)
		defer t.Stop()
		for {
			select {
			case <-s.closed:
				return
			case <-t.C:
				s.mu.Lock()
				if s.session.Generation() != gen || s.session.State() != puzzle.StateActive {
					s.mu.Unlock()
					return
				}
				s.session.Tick()
				s.mu.Unlock()
			}
		}
	}()
}
