package points

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/studybuddy/backend/internal/models"
)

// Store is the Postgres-backed ledger.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Ledger ──────────────────────────────────────────────

// Award adds amount to the user's running total and logs the event in the
// same transaction. The increment is a single UPDATE so concurrent awards
// for one user never lose points.
func (s *Store) Award(ctx context.Context, userID int64, e Event) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin award: %w", err)
	}
	defer tx.Rollback()

	completed := 0
	if e.Type == EventQuizCompleted {
		completed = 1
	}

	var total int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO user_points (user_id, total_points, quizzes_completed)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		     total_points = user_points.total_points + EXCLUDED.total_points,
		     quizzes_completed = user_points.quizzes_completed + EXCLUDED.quizzes_completed,
		     updated_at = NOW()
		 RETURNING total_points`,
		userID, e.Amount, completed,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("add points: %w", err)
	}

	var metaJSON *string
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err == nil {
			s := string(b)
			metaJSON = &s
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO point_events (user_id, event_type, amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, e.Type, e.Amount, metaJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("log point event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit award: %w", err)
	}
	return total, nil
}

func (s *Store) Total(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT total_points FROM user_points WHERE user_id = $1), 0)`,
		userID,
	).Scan(&total)
	return total, err
}

// ── Summary & Events ────────────────────────────────────

func (s *Store) Summary(ctx context.Context, userID int64) (*models.PointsSummary, error) {
	sum := models.PointsSummary{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(p.total_points, 0), COALESCE(p.quizzes_completed, 0),
		        COALESCE((
		            SELECT r.rank FROM (
		                SELECT user_id, ROW_NUMBER() OVER (ORDER BY total_points DESC, user_id) AS rank
		                FROM user_points WHERE total_points > 0
		            ) r WHERE r.user_id = $1
		        ), 0)
		 FROM (SELECT $1::BIGINT AS user_id) u
		 LEFT JOIN user_points p ON p.user_id = u.user_id`,
		userID,
	).Scan(&sum.TotalPoints, &sum.QuizzesCompleted, &sum.Rank)
	if err != nil {
		return nil, fmt.Errorf("points summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) RecentEvents(ctx context.Context, userID int64, limit int) ([]models.PointEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_type, amount, metadata, created_at
		 FROM point_events WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent point events: %w", err)
	}
	defer rows.Close()

	events := []models.PointEvent{}
	for rows.Next() {
		var e models.PointEvent
		var meta []byte
		if err := rows.Scan(&e.ID, &e.EventType, &e.Amount, &meta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point event: %w", err)
		}
		if len(meta) > 0 {
			e.Metadata = json.RawMessage(meta)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, p.total_points, p.quizzes_completed,
		        ROW_NUMBER() OVER (ORDER BY p.total_points DESC, u.id) AS rank
		 FROM user_points p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.total_points > 0
		 ORDER BY p.total_points DESC, u.id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

func scanLeaderboard(rows *sql.Rows) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		var fullName string
		if err := rows.Scan(&e.UserID, &fullName, &e.TotalPoints, &e.QuizzesCompleted, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.DisplayName = models.FormatDisplayName(fullName)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
