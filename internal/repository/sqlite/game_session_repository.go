package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

type gameSessionRepository struct {
	db *sql.DB
}

// NewGameSessionRepository creates a new GameSessionRepository implementation
func NewGameSessionRepository(db *sql.DB) repository.GameSessionRepository {
	return &gameSessionRepository{db: db}
}

func (r *gameSessionRepository) Insert(ctx context.Context, o models.SessionOutcome) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("game_session_repo")
	log.Debug("inserting game session: user_id=%d, difficulty=%s, won=%t", o.UserID, o.DifficultyLabel, o.IsWon)

	query, args, err := sqlBuilder.
		Insert("game_sessions").
		Columns("user_id", "difficulty_level", "moves_count", "time_taken_seconds", "is_won").
		Values(o.UserID, o.DifficultyLabel, o.Moves, o.ElapsedSeconds, o.IsWon).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert game session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get game session id: %v", err)
		return 0, err
	}
	log.Debug("game session inserted: id=%d", id)
	return id, nil
}

func (r *gameSessionRepository) History(ctx context.Context, userID int64, limit int) ([]models.GameRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("game_session_repo")
	log.Debug("loading history: user_id=%d, limit=%d", userID, limit)

	query, args, err := sqlBuilder.
		Select("id", "user_id", "difficulty_level", "moves_count", "time_taken_seconds", "is_won", "played_at").
		From("game_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("played_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.GameRecord{}
	for rows.Next() {
		var g models.GameRecord
		if err := rows.Scan(&g.ID, &g.UserID, &g.DifficultyLevel, &g.MovesCount, &g.TimeTakenSeconds, &g.IsWon, &g.PlayedAt); err != nil {
			log.Error("failed to scan game session row: %v", err)
			return nil, err
		}
		records = append(records, g)
	}
	log.Debug("found %d game sessions", len(records))
	return records, rows.Err()
}

func (r *gameSessionRepository) StatsByDifficulty(ctx context.Context, userID int64) ([]models.DifficultyAggregate, error) {
	log := logger.FromContext(ctx).WithPrefix("game_session_repo")
	log.Debug("aggregating stats: user_id=%d", userID)

	query, args, err := sqlBuilder.
		Select(
			"difficulty_level",
			"COUNT(*) AS total_played",
			"COALESCE(SUM(is_won), 0) AS wins",
			"COALESCE(AVG(time_taken_seconds), 0) AS avg_time",
		).
		From("game_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("difficulty_level").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to aggregate stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.DifficultyAggregate
	for rows.Next() {
		var s models.DifficultyAggregate
		if err := rows.Scan(&s.DifficultyLevel, &s.TotalPlayed, &s.Wins, &s.AvgTime); err != nil {
			log.Error("failed to scan stats row: %v", err)
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
