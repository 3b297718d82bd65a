package play

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/puzzle"
)

// Manager owns the live sessions, one per user.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*LiveSession

	backend puzzle.Collaborator
	pool    Submitter
	story   StoryAdvancer
	pub     Publisher

	shuffler     puzzle.Shuffler
	tickInterval time.Duration
	now          func() time.Time
	log          *logger.Logger
}

type ManagerOption func(*Manager)

// WithShuffler shares sh across every session the manager creates.
func WithShuffler(sh puzzle.Shuffler) ManagerOption {
	return func(m *Manager) { m.shuffler = sh }
}

// WithTickInterval sets the countdown period. Zero disables the automatic
// tick loop; callers then drive LiveSession.Tick themselves.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.tickInterval = d }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(backend puzzle.Collaborator, pool Submitter, story StoryAdvancer, pub Publisher, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:     make(map[int64]*LiveSession),
		backend:      backend,
		pool:         pool,
		story:        story,
		pub:          pub,
		tickInterval: time.Second,
		now:          time.Now,
		log:          logger.Default().WithPrefix("play"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.shuffler == nil {
		m.shuffler = puzzle.NewRandomShuffler(0)
	}
	return m
}

// Get returns the user's live session, or nil.
func (m *Manager) Get(userID int64) *LiveSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// GetOrCreate returns the user's live session, creating an idle one at
// size if there is none.
func (m *Manager) GetOrCreate(userID int64, size int) *LiveSession {
	if s := m.Get(userID); s != nil {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}

	id := uuid.NewString()
	ls := &LiveSession{
		ID:           id,
		UserID:       userID,
		backend:      m.backend,
		pool:         m.pool,
		story:        m.story,
		pub:          m.pub,
		tickInterval: m.tickInterval,
		closed:       make(chan struct{}),
		log:          m.log.WithFields(map[string]any{"session_id": id, "user_id": userID}),
	}
	ls.session = puzzle.NewSession(size,
		puzzle.WithShuffler(m.shuffler),
		puzzle.WithScheduler(ls),
		puzzle.WithListener(ls),
		puzzle.WithNow(m.now),
	)
	ls.powerUps = puzzle.NewPowerUpController(ls.session, m.backend, userID)
	m.sessions[userID] = ls

	ls.log.Debug("live session created")
	return ls
}

// Remove closes and forgets the user's session.
func (m *Manager) Remove(userID int64) {
	m.mu.Lock()
	ls, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		ls.Close()
	}
}

// Shutdown closes every session. Running attempts are reported as
// abandoned.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[int64]*LiveSession)
	m.mu.Unlock()

	for _, ls := range sessions {
		ls.Close()
	}
	m.log.Info("closed %d live sessions", len(sessions))
}
