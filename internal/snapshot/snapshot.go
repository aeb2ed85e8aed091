package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/studybuddy/backend/internal/points"
	"github.com/studybuddy/backend/internal/studyplan"
)

// Snapshot keys.
const (
	KeyStudyPlan  = "studyPlan"
	KeyUserPoints = "userPoints"
)

var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    user_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (user_id, key)
);
`

// Store keeps the CLI's last-write-wins snapshots in a local SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serialises writers so point increments never race.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put overwrites the value stored under key.
func (s *Store) Put(ctx context.Context, userID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		userID, key, value, s.stamp(),
	)
	return err
}

func (s *Store) Get(ctx context.Context, userID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE user_id = ? AND key = ?`, userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(ctx context.Context, userID int64, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// ── Study plan ──────────────────────────────────────────

func (s *Store) SavePlan(ctx context.Context, userID int64, plan *studyplan.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return s.Put(ctx, userID, KeyStudyPlan, string(data))
}

func (s *Store) GetPlan(ctx context.Context, userID int64) (*studyplan.Plan, error) {
	raw, err := s.Get(ctx, userID, KeyStudyPlan)
	if errors.Is(err, ErrNotFound) {
		return nil, studyplan.ErrNoPlan
	}
	if err != nil {
		return nil, err
	}
	var plan studyplan.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("decode plan snapshot: %w", err)
	}
	return &plan, nil
}

func (s *Store) DeletePlan(ctx context.Context, userID int64) error {
	ok, err := s.Delete(ctx, userID, KeyStudyPlan)
	if err != nil {
		return err
	}
	if !ok {
		return studyplan.ErrNoPlan
	}
	return nil
}

// ── Points ──────────────────────────────────────────────

// Award adds e.Amount to the stored total in a single statement and
// returns the new total.
func (s *Store) Award(ctx context.Context, userID int64, e points.Event) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO snapshots (user_id, key, value, updated_at) VALUES (?, ?, CAST(? AS TEXT), ?)
		 ON CONFLICT(user_id, key) DO UPDATE
		 SET value = CAST(CAST(snapshots.value AS INTEGER) + CAST(excluded.value AS INTEGER) AS TEXT),
		     updated_at = excluded.updated_at
		 RETURNING CAST(value AS INTEGER)`,
		userID, KeyUserPoints, e.Amount, s.stamp(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("award points: %w", err)
	}
	return total, nil
}

func (s *Store) Total(ctx context.Context, userID int64) (int64, error) {
	raw, err := s.Get(ctx, userID, KeyUserPoints)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode points snapshot: %w", err)
	}
	return total, nil
}
