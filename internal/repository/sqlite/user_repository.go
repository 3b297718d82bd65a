package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, username, passwordHash string, startingDust int) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: username=%s", username)

	var u models.User
	err := conn(ctx, r.db).QueryRowContext(ctx, `
INSERT INTO users (username, password_hash, magic_dust)
VALUES (?, ?, ?)
RETURNING id, username, password_hash, magic_dust, created_at
`, username, passwordHash, startingDust).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MagicDust, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("username already taken: %s", username)
			return nil, repository.ErrDuplicate
		}
		log.Error("failed to create user: %v", err)
		return nil, err
	}
	log.Debug("user created: id=%d", u.ID)
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

// getBy returns nil, nil when no user matches.
func (r *userRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: %v", where)

	query, args, err := sqlBuilder.
		Select("id", "username", "password_hash", "magic_dust", "created_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		log.Error("failed to build user query: %v", err)
		return nil, err
	}

	var u models.User
	err = conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MagicDust, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Balance(ctx context.Context, id int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var balance int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT magic_dust FROM users WHERE id = ?`, id).Scan(&balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to read balance: user_id=%d, err=%v", id, err)
	}
	return balance, err
}

func (r *userRepository) AddDust(ctx context.Context, id int64, amount int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("crediting dust: user_id=%d, amount=%d", id, amount)

	query, args, err := sqlBuilder.
		Update("users").
		Set("magic_dust", squirrel.Expr("magic_dust + ?", amount)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING magic_dust").
		ToSql()
	if err != nil {
		return 0, err
	}

	var balance int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&balance); err != nil {
		log.Error("failed to credit dust: %v", err)
		return 0, err
	}
	return balance, nil
}

func (r *userRepository) SpendDust(ctx context.Context, id int64, amount int) (int, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("spending dust: user_id=%d, amount=%d", id, amount)

	// The balance check and the debit are one statement so concurrent
	// spends cannot overdraw.
	query, args, err := sqlBuilder.
		Update("users").
		Set("magic_dust", squirrel.Expr("magic_dust - ?", amount)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"magic_dust": amount}).
		Suffix("RETURNING magic_dust").
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var balance int
	err = conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		current, berr := r.Balance(ctx, id)
		if berr != nil {
			return 0, false, berr
		}
		log.Debug("spend declined: user_id=%d, balance=%d, amount=%d", id, current, amount)
		return current, false, nil
	}
	if err != nil {
		log.Error("failed to spend dust: %v", err)
		return 0, false, err
	}
	return balance, true, nil
}

func (r *userRepository) TopByDust(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("loading global leaderboard: limit=%d", limit)

	query, args, err := sqlBuilder.
		Select("username", "magic_dust").
		From("users").
		OrderBy("magic_dust DESC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.MagicDust); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
