package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/studybuddy/backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore finds and creates login identities.
type UserStore interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
	Create(ctx context.Context, name string, age int, education string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, name, age, education, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Education, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByName matches names case-insensitively.
func (s *Store) FindByName(ctx context.Context, name string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(name) = LOWER($1)`, name))
}

func (s *Store) Create(ctx context.Context, name string, age int, education string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, age, education, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING `+userColumns,
		name, age, education))
	if err != nil {
		// Two logins with the same new name can race; the unique index on
		// lower(name) lets the loser fall back to the winner's row.
		if strings.Contains(err.Error(), "duplicate key") {
			return s.FindByName(ctx, name)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}
