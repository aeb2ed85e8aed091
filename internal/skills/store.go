package skills

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/studybuddy/backend/internal/models"
)

// Repository persists skills and the activity log.
type Repository interface {
	ListSkills(ctx context.Context, userID int64) ([]models.Skill, error)
	CreateSkill(ctx context.Context, userID int64, name, category string, progress int) (*models.Skill, error)
	// RecordActivity stores the activity and, when skillID is non-zero,
	// boosts that skill's progress in the same transaction.
	RecordActivity(ctx context.Context, userID int64, a models.SkillActivity, skillID int64) (*models.SkillActivity, *models.Skill, error)
	ListActivities(ctx context.Context, userID int64, limit int) ([]models.SkillActivity, error)
	ActivitiesSince(ctx context.Context, userID int64, since time.Time) ([]models.SkillActivity, error)
	CountActivities(ctx context.Context, userID int64) (int, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListSkills(ctx context.Context, userID int64) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, progress, last_activity_at, created_at
		 FROM skills WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	list := []models.Skill{}
	for rows.Next() {
		var sk models.Skill
		var last sql.NullTime
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Progress, &last, &sk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		if last.Valid {
			sk.LastActivityAt = &last.Time
		}
		list = append(list, sk)
	}
	return list, rows.Err()
}

func (s *Store) CreateSkill(ctx context.Context, userID int64, name, category string, progress int) (*models.Skill, error) {
	sk := models.Skill{Name: name, Category: category, Progress: progress}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO skills (user_id, name, category, progress) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		userID, name, category, progress,
	).Scan(&sk.ID, &sk.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert skill: %w", err)
	}
	return &sk, nil
}

func (s *Store) RecordActivity(ctx context.Context, userID int64, a models.SkillActivity, skillID int64) (*models.SkillActivity, *models.Skill, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO skill_activities (user_id, name, category, duration_minutes, notes, performed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		userID, a.Name, a.Category, a.DurationMinutes, a.Notes, a.PerformedAt,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert skill activity: %w", err)
	}

	var updated *models.Skill
	if skillID != 0 {
		var sk models.Skill
		var last sql.NullTime
		err = tx.QueryRowContext(ctx,
			`UPDATE skills
			 SET progress = LEAST($3, progress + $4), last_activity_at = NOW()
			 WHERE id = $1 AND user_id = $2
			 RETURNING id, name, category, progress, last_activity_at, created_at`,
			skillID, userID, MaxProgress, ActivityBoost,
		).Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Progress, &last, &sk.CreatedAt)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("boost skill: %w", err)
		}
		if err == nil {
			if last.Valid {
				sk.LastActivityAt = &last.Time
			}
			updated = &sk
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &a, updated, nil
}

func (s *Store) ListActivities(ctx context.Context, userID int64, limit int) ([]models.SkillActivity, error) {
	return s.queryActivities(ctx,
		`SELECT id, name, category, duration_minutes, notes, performed_at, created_at
		 FROM skill_activities WHERE user_id = $1
		 ORDER BY performed_at DESC, id DESC LIMIT $2`,
		userID, limit)
}

func (s *Store) ActivitiesSince(ctx context.Context, userID int64, since time.Time) ([]models.SkillActivity, error) {
	return s.queryActivities(ctx,
		`SELECT id, name, category, duration_minutes, notes, performed_at, created_at
		 FROM skill_activities WHERE user_id = $1 AND performed_at >= $2
		 ORDER BY performed_at`,
		userID, since)
}

func (s *Store) CountActivities(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM skill_activities WHERE user_id = $1`, userID,
	).Scan(&n)
	return n, err
}

func (s *Store) queryActivities(ctx context.Context, query string, args ...interface{}) ([]models.SkillActivity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skill activities: %w", err)
	}
	defer rows.Close()

	list := []models.SkillActivity{}
	for rows.Next() {
		var a models.SkillActivity
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.DurationMinutes, &a.Notes, &a.PerformedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan skill activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
