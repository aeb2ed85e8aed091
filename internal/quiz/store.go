package quiz

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studybuddy/backend/internal/models"
)

// AttemptStore records finished quizzes.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, userID int64, a models.QuizAttempt) (int64, error)
	ListAttempts(ctx context.Context, userID int64, limit, offset int) ([]models.QuizAttempt, int, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RecordAttempt(ctx context.Context, userID int64, a models.QuizAttempt) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO quiz_attempts (user_id, quiz_id, topic, difficulty, score, total_questions, points_earned, duration_seconds, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		userID, a.QuizID, a.Topic, a.Difficulty, a.Score, a.TotalQuestions, a.PointsEarned, a.DurationSeconds, a.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert quiz attempt: %w", err)
	}
	return id, nil
}

func (s *Store) ListAttempts(ctx context.Context, userID int64, limit, offset int) ([]models.QuizAttempt, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quiz attempts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, topic, difficulty, score, total_questions, points_earned, duration_seconds, completed_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.Topic, &a.Difficulty, &a.Score, &a.TotalQuestions,
			&a.PointsEarned, &a.DurationSeconds, &a.CompletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, total, rows.Err()
}
