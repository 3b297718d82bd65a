package services

import (
	"context"
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/puzzle"
	"github.com/vytor/workshop/internal/repository"
)

const (
	maxUsernameLength = 32
	minPasswordLength = 4

	registrationTheme = "dynamic"
)

// AccountService handles registration, login and the per-user game summary
type AccountService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Get(ctx context.Context, userID int64) (*models.User, error)
	Snapshot(ctx context.Context, userID int64) (*models.AccountSnapshot, error)
}

type accountService struct {
	users        repository.UserRepository
	games        repository.GameSessionRepository
	prefs        repository.PreferenceRepository
	txr          repository.Transactor
	startingDust int
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users repository.UserRepository,
	games repository.GameSessionRepository,
	prefs repository.PreferenceRepository,
	txr repository.Transactor,
	startingDust int,
) AccountService {
	return &accountService{
		users:        users,
		games:        games,
		prefs:        prefs,
		txr:          txr,
		startingDust: startingDust,
	}
}

func (s *accountService) Register(ctx context.Context, username, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Debug("registering user: username=%s", username)

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if len(username) > maxUsernameLength {
		return nil, errors.NewValidationError("username", "must be at most 32 characters")
	}
	if len(password) < minPasswordLength {
		return nil, errors.NewValidationError("password", "must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var user *models.User
	err = s.txr.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.Create(ctx, username, string(hash), s.startingDust)
		if err != nil {
			return err
		}
		user = u
		return s.prefs.SetTheme(ctx, u.ID, registrationTheme)
	})
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewConflictError("username already taken")
	}
	if err != nil {
		log.Error("failed to register user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user registered: id=%d, username=%s", user.ID, user.Username)
	return user, nil
}

func (s *accountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("login attempt: username=%s", username)

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug("password mismatch: username=%s", username)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	return user, nil
}

func (s *accountService) Get(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user %d: %v", userID, err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (s *accountService) Snapshot(ctx context.Context, userID int64) (*models.AccountSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("building account snapshot: user_id=%d", userID)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.games.StatsByDifficulty(ctx, userID)
	if err != nil {
		log.Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	snap := &models.AccountSnapshot{
		UserID:   user.ID,
		Username: user.Username,
		Balance:  user.MagicDust,
		Stats:    make(map[string]models.DifficultyStat),
	}

	var standard *models.DifficultyAggregate
	for i, agg := range aggregates {
		size, ok := puzzle.SizeForLabel(agg.DifficultyLevel)
		if !ok || agg.TotalPlayed == 0 {
			continue
		}
		snap.Stats[strconv.Itoa(size)] = models.DifficultyStat{
			AvgTime: int(math.Round(agg.AvgTime)),
			WinRate: int(math.Round(float64(agg.Wins) * 100 / float64(agg.TotalPlayed))),
			Total:   agg.TotalPlayed,
		}
		if size == puzzle.DefaultSize {
			standard = &aggregates[i]
		}
	}

	snap.RecommendedDifficulty, snap.Title = recommend(standard)
	return snap, nil
}

// recommend picks the next grid size from the player's 4x4 record.
func recommend(agg *models.DifficultyAggregate) (int, string) {
	if agg == nil || agg.TotalPlayed == 0 {
		return 4, "Novice Elf"
	}
	winRate := float64(agg.Wins) / float64(agg.TotalPlayed)
	switch {
	case winRate > 0.8 && agg.AvgTime < 60:
		return 6, "Master Builder"
	case winRate < 0.3:
		return 3, "Apprentice"
	default:
		return 4, "Workshop Regular"
	}
}
