package studyplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Store keeps plan snapshots in Postgres as JSONB.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SavePlan(ctx context.Context, userID int64, plan *Plan) error {
	b, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO study_plans (user_id, plan, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = NOW()`,
		userID, string(b),
	)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

func (s *Store) GetPlan(ctx context.Context, userID int64) (*Plan, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT plan FROM study_plans WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPlan
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	var p Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

func (s *Store) DeletePlan(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM study_plans WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoPlan
	}
	return nil
}
