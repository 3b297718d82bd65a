package puzzle

import (
	"context"
	"time"

	"github.com/looplab/fsm"
)

// State is the lifecycle state of a puzzle session.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
	StateWon    State = "won"
	StateLost   State = "lost"
)

const (
	sessionEventStart   = "start"
	sessionEventWin     = "win"
	sessionEventExpire  = "expire"
	sessionEventAbandon = "abandon"
	sessionEventReset   = "reset"
)

// EventType names something that happened to a session.
type EventType string

const (
	EventStarted           EventType = "started"
	EventMoved             EventType = "moved"
	EventTick              EventType = "tick"
	EventPanic             EventType = "panic"
	EventWon               EventType = "won"
	EventLost              EventType = "lost"
	EventAbandoned         EventType = "abandoned"
	EventDifficultyChanged EventType = "difficulty_changed"
	EventFrozen            EventType = "frozen"
	EventResumed           EventType = "resumed"
	EventHintShown         EventType = "hint_shown"
	EventHintCleared       EventType = "hint_cleared"
	EventPreviewShown      EventType = "preview_shown"
	EventPreviewEnded      EventType = "preview_ended"
)

// Outcome is the result of a finished attempt, as handed to the backend.
type Outcome struct {
	Size            int    `json:"size"`
	DifficultyLabel string `json:"difficulty"`
	Moves           int    `json:"moves"`
	TimeTaken       int    `json:"timeTaken"`
	IsWon           bool   `json:"isWon"`
	Reward          int    `json:"reward,omitempty"`
}

// Event is delivered to the session listener. Outcome is set on won, lost
// and abandoned events unless the attempt lasted under a second.
type Event struct {
	Type       EventType `json:"type"`
	Generation uint64    `json:"generation"`
	Outcome    *Outcome  `json:"outcome,omitempty"`
}

type Listener interface {
	OnSessionEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnSessionEvent(e Event) { f(e) }

// Task is a pending deferred action.
type Task interface {
	Stop() bool
}

// Scheduler runs fn after d. Callbacks must be delivered on the same
// logical thread as every other call into the session.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) Task

func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Task { return f(d, fn) }

// Session is one player's puzzle: a board, its countdown and the state
// machine tying them together. It is not safe for concurrent use.
type Session struct {
	fsm       *fsm.FSM
	board     *Board
	clock     *Clock
	shuffler  Shuffler
	scheduler Scheduler
	listener  Listener
	now       func() time.Time

	size       int
	moveCount  int
	timeLimit  int
	startedAt  time.Time
	generation uint64
	pending    []Task

	hintIndex int
	hintSeq   uint64
	heldTiles []int
}

// Option configures a Session.
type Option func(*Session)

func WithShuffler(sh Shuffler) Option {
	return func(s *Session) { s.shuffler = sh }
}

func WithScheduler(sc Scheduler) Option {
	return func(s *Session) { s.scheduler = sc }
}

func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithNow replaces the wall clock used for elapsed time.
func WithNow(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession returns an idle session showing a solved board of size.
func NewSession(size int, opts ...Option) *Session {
	size = NormalizeSize(size)
	s := &Session{
		board:     NewBoard(size),
		clock:     NewClock(),
		now:       time.Now,
		size:      size,
		timeLimit: TimeLimit(size),
		hintIndex: -1,
		scheduler: SchedulerFunc(func(d time.Duration, fn func()) Task {
			return time.AfterFunc(d, fn)
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = NewRandomShuffler(0)
	}
	s.fsm = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: sessionEventStart, Src: []string{string(StateIdle), string(StateWon), string(StateLost)}, Dst: string(StateActive)},
			{Name: sessionEventWin, Src: []string{string(StateActive)}, Dst: string(StateWon)},
			{Name: sessionEventExpire, Src: []string{string(StateActive)}, Dst: string(StateLost)},
			{Name: sessionEventAbandon, Src: []string{string(StateActive)}, Dst: string(StateIdle)},
			{Name: sessionEventReset, Src: []string{string(StateWon), string(StateLost)}, Dst: string(StateIdle)},
		},
		fsm.Callbacks{
			"leave_" + string(StateActive): func(_ context.Context, _ *fsm.Event) {
				s.closeAttempt()
			},
		},
	)
	return s
}

// StartGame begins a new attempt. A running attempt is forfeited first.
func (s *Session) StartGame(size int) {
	if s.State() == StateActive {
		s.Abandon()
	}
	size = NormalizeSize(size)
	s.cancelPending()
	s.generation++

	s.size = size
	s.board.Reset(size)
	s.moveCount = 0
	s.timeLimit = TimeLimit(size)
	s.clock.Start(s.timeLimit)
	s.shuffler.Shuffle(s.board)
	s.startedAt = s.now()
	s.fire(sessionEventStart)
	s.emit(EventStarted, nil)
}

// SetDifficulty shows a solved board of the new size. It is refused while
// an attempt is running.
func (s *Session) SetDifficulty(size int) bool {
	if s.State() == StateActive {
		return false
	}
	s.fire(sessionEventReset)
	s.size = NormalizeSize(size)
	s.board.Reset(s.size)
	s.timeLimit = TimeLimit(s.size)
	s.emit(EventDifficultyChanged, nil)
	return true
}

// AttemptMove slides the tile at index into the empty cell. It reports
// false, changing nothing, unless the tile is adjacent to the empty cell.
func (s *Session) AttemptMove(index int) bool {
	if s.State() != StateActive || s.heldTiles != nil || !s.board.IsMovable(index) {
		return false
	}
	s.board.Swap(index, s.board.EmptyIndex())
	s.moveCount++
	s.clearHint()
	s.emit(EventMoved, nil)

	if s.board.IsSolved() {
		elapsed := s.elapsed()
		s.fire(sessionEventWin)
		s.emit(EventWon, s.outcome(true, elapsed))
	}
	return true
}

// Tick advances the countdown by one second.
func (s *Session) Tick() {
	if s.State() != StateActive || s.clock.State() != ClockRunning {
		return
	}
	signal := s.clock.Tick()
	s.emit(EventTick, nil)
	switch signal {
	case SignalPanic:
		s.emit(EventPanic, nil)
	case SignalExpired:
		s.fire(sessionEventExpire)
		s.emit(EventLost, s.outcome(false, s.timeLimit))
	}
}

// Abandon forfeits a running attempt. It reports whether one was running.
func (s *Session) Abandon() bool {
	if s.State() != StateActive {
		return false
	}
	elapsed := s.elapsed()
	s.fire(sessionEventAbandon)
	s.emit(EventAbandoned, s.outcome(false, elapsed))
	return true
}

func (s *Session) State() State { return State(s.fsm.Current()) }

func (s *Session) Generation() uint64 { return s.generation }

func (s *Session) Size() int { return s.size }

func (s *Session) MoveCount() int { return s.moveCount }

func (s *Session) TimeLimit() int { return s.timeLimit }

func (s *Session) TimeRemaining() int {
	if s.State() == StateIdle {
		return s.timeLimit
	}
	return s.clock.Remaining()
}

func (s *Session) ClockState() ClockState { return s.clock.State() }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Tiles returns the cells as currently displayed.
func (s *Session) Tiles() []int { return s.board.Tiles() }

func (s *Session) EmptyIndex() int { return s.board.EmptyIndex() }

// HintIndex returns the highlighted cell, or -1.
func (s *Session) HintIndex() int { return s.hintIndex }

// PreviewActive reports whether the solved board is being shown.
func (s *Session) PreviewActive() bool { return s.heldTiles != nil }

// Snapshot is a read-only view of a session for presentation layers.
type Snapshot struct {
	State         State      `json:"state"`
	Size          int        `json:"size"`
	Difficulty    string     `json:"difficulty"`
	Tiles         []int      `json:"tiles"`
	EmptyIndex    int        `json:"emptyIndex"`
	Movable       []int      `json:"movable"`
	MoveCount     int        `json:"moves"`
	TimeLimit     int        `json:"timeLimit"`
	TimeRemaining int        `json:"timeRemaining"`
	Clock         ClockState `json:"clock"`
	HintIndex     int        `json:"hintIndex"`
	Preview       bool       `json:"preview"`
	Generation    uint64     `json:"generation"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:         s.State(),
		Size:          s.size,
		Difficulty:    DifficultyLabel(s.size),
		Tiles:         s.board.Tiles(),
		EmptyIndex:    s.board.EmptyIndex(),
		Movable:       []int{},
		MoveCount:     s.moveCount,
		TimeLimit:     s.timeLimit,
		TimeRemaining: s.TimeRemaining(),
		Clock:         s.clock.State(),
		HintIndex:     s.hintIndex,
		Preview:       s.heldTiles != nil,
		Generation:    s.generation,
	}
	if snap.State == StateActive && !snap.Preview {
		snap.Movable = s.board.Neighbors(s.board.EmptyIndex())
	}
	return snap
}

// checkPowerUp reports why kind cannot be applied now, if it cannot.
func (s *Session) checkPowerUp(kind PowerUpKind) error {
	if s.State() != StateActive {
		return ErrSessionNotActive
	}
	switch kind {
	case Freeze:
		if s.clock.State() != ClockRunning {
			return ErrPowerUpUnavailable
		}
	case Hint, Preview:
		if s.heldTiles != nil {
			return ErrPowerUpUnavailable
		}
	default:
		return ErrUnknownPowerUp
	}
	return nil
}

// applyPowerUp starts the effect and schedules its revert. The caller has
// already checked and paid for it.
func (s *Session) applyPowerUp(spec PowerUpSpec) *Activation {
	gen := s.generation
	act := &Activation{Kind: spec.Kind, Cost: spec.Cost, DurationSeconds: int(spec.Duration / time.Second)}

	switch spec.Kind {
	case Freeze:
		s.clock.Freeze()
		s.emit(EventFrozen, nil)
		s.schedule(spec.Duration, func() {
			if s.generation != gen || s.State() != StateActive {
				return
			}
			if s.clock.Resume() {
				s.emit(EventResumed, nil)
			}
		})

	case Hint:
		s.hintSeq++
		seq := s.hintSeq
		s.hintIndex = s.board.Neighbors(s.board.EmptyIndex())[0]
		hint := s.hintIndex
		act.HintIndex = &hint
		s.emit(EventHintShown, nil)
		s.schedule(spec.Duration, func() {
			if s.generation != gen || s.hintSeq != seq || s.hintIndex < 0 {
				return
			}
			s.hintIndex = -1
			s.emit(EventHintCleared, nil)
		})

	case Preview:
		s.heldTiles = s.board.Tiles()
		s.board.load(SolvedTiles(s.size))
		s.emit(EventPreviewShown, nil)
		s.schedule(spec.Duration, func() {
			if s.generation != gen || s.heldTiles == nil {
				return
			}
			s.restorePreview()
			s.emit(EventPreviewEnded, nil)
		})
	}
	return act
}

// closeAttempt runs on every exit from the active state.
func (s *Session) closeAttempt() {
	s.restorePreview()
	s.clearHint()
	s.clock.Stop()
	s.cancelPending()
	s.generation++
}

func (s *Session) restorePreview() {
	if s.heldTiles == nil {
		return
	}
	s.board.load(s.heldTiles)
	s.heldTiles = nil
}

func (s *Session) clearHint() {
	s.hintIndex = -1
	s.hintSeq++
}

func (s *Session) schedule(d time.Duration, fn func()) {
	s.pending = append(s.pending, s.scheduler.AfterFunc(d, fn))
}

func (s *Session) cancelPending() {
	for _, t := range s.pending {
		t.Stop()
	}
	s.pending = nil
}

func (s *Session) elapsed() int {
	d := s.now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// outcome builds the reported result; attempts under a second are noise
// and yield nil.
func (s *Session) outcome(won bool, timeTaken int) *Outcome {
	if timeTaken < 1 {
		return nil
	}
	o := &Outcome{
		Size:            s.size,
		DifficultyLabel: DifficultyLabel(s.size),
		Moves:           s.moveCount,
		TimeTaken:       timeTaken,
		IsWon:           won,
	}
	if won {
		o.Reward = Reward(timeTaken)
	}
	return o
}

func (s *Session) fire(event string) {
	if s.fsm.Can(event) {
		_ = s.fsm.Event(context.Background(), event)
	}
}

func (s *Session) emit(t EventType, o *Outcome) {
	if s.listener == nil {
		return
	}
	s.listener.OnSessionEvent(Event{Type: t, Generation: s.generation, Outcome: o})
}
