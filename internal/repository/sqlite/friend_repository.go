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

type friendRepository struct {
	db *sql.DB
}

// NewFriendRepository creates a new FriendRepository implementation
func NewFriendRepository(db *sql.DB) repository.FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Between(ctx context.Context, a, b int64) (*models.Friendship, error) {
	log := logger.FromContext(ctx).WithPrefix("friend_repo")

	query, args, err := sqlBuilder.
		Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(squirrel.Or{
			squirrel.Eq{"user_id": a, "friend_id": b},
			squirrel.Eq{"user_id": b, "friend_id": a},
		}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var f models.Friendship
	err = conn(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to look up friendship: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *friendRepository) Create(ctx context.Context, userID, friendID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("friend_repo")
	log.Debug("creating friend request: user_id=%d, friend_id=%d", userID, friendID)

	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO friends (user_id, friend_id, status) VALUES (?, ?, ?)`,
		userID, friendID, models.FriendPending)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to create friend request: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *friendRepository) Pending(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	log := logger.FromContext(ctx).WithPrefix("friend_repo")

	query, args, err := sqlBuilder.
		Select("f.user_id", "u.username").
		From("friends f").
		Join("users u ON f.user_id = u.id").
		Where(squirrel.Eq{"f.friend_id": userID, "f.status": models.FriendPending}).
		OrderBy("f.created_at", "f.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load pending requests: %v", err)
		return nil, err
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		var fr models.FriendRequest
		if err := rows.Scan(&fr.UserID, &fr.Username); err != nil {
			return nil, err
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

func (r *friendRepository) Accept(ctx context.Context, requesterID, userID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("friend_repo")
	log.Debug("accepting friend request: requester_id=%d, user_id=%d", requesterID, userID)

	res, err := conn(ctx, r.db).ExecContext(ctx, `
UPDATE friends SET status = ?
WHERE user_id = ? AND friend_id = ? AND status = ?
`, models.FriendAccepted, requesterID, userID, models.FriendPending)
	if err != nil {
		log.Error("failed to accept friend request: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *friendRepository) Leaderboard(ctx context.Context, userID int64, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("friend_repo")
	log.Debug("loading friends leaderboard: user_id=%d", userID)

	// Accepted friends in either direction, plus the user.
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT u.username, u.magic_dust
FROM users u
WHERE u.id = ?
   OR u.id IN (SELECT friend_id FROM friends WHERE user_id = ? AND status = ?)
   OR u.id IN (SELECT user_id FROM friends WHERE friend_id = ? AND status = ?)
ORDER BY u.magic_dust DESC, u.id ASC
LIMIT ?
`, userID, userID, models.FriendAccepted, userID, models.FriendAccepted, limit)
	if err != nil {
		log.Error("failed to load friends leaderboard: %v", err)
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
