package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/models"
)

var ErrThreadNotFound = errors.New("chat thread not found")

// Repository persists chat threads and their messages.
type Repository interface {
	CreateThread(ctx context.Context, userID int64, title string) (*models.ChatThread, error)
	GetThread(ctx context.Context, userID int64, threadID string) (*models.ChatThread, error)
	ListThreads(ctx context.Context, userID int64, limit int) ([]models.ChatThread, error)
	AppendMessage(ctx context.Context, threadID, role, content string) (*models.ChatMessage, error)
	DeleteThread(ctx context.Context, userID int64, threadID string) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateThread(ctx context.Context, userID int64, title string) (*models.ChatThread, error) {
	t := models.ChatThread{ID: uuid.NewString(), Title: title, Messages: []models.ChatMessage{}}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO chat_threads (id, user_id, title) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		t.ID, userID, title,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chat thread: %w", err)
	}
	return &t, nil
}

// GetThread loads a thread with its messages, oldest first. Threads owned
// by another user are reported as not found.
func (s *Store) GetThread(ctx context.Context, userID int64, threadID string) (*models.ChatThread, error) {
	if _, err := uuid.Parse(threadID); err != nil {
		return nil, ErrThreadNotFound
	}

	var t models.ChatThread
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM chat_threads WHERE id = $1 AND user_id = $2`,
		threadID, userID,
	).Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat thread: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM chat_messages WHERE thread_id = $1 ORDER BY id`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	t.Messages = []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		t.Messages = append(t.Messages, m)
	}
	t.MessageCount = len(t.Messages)
	return &t, rows.Err()
}

func (s *Store) ListThreads(ctx context.Context, userID int64, limit int) ([]models.ChatThread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.title, t.created_at, t.updated_at, COUNT(m.id)
		 FROM chat_threads t
		 LEFT JOIN chat_messages m ON m.thread_id = t.id
		 WHERE t.user_id = $1
		 GROUP BY t.id
		 ORDER BY t.updated_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chat threads: %w", err)
	}
	defer rows.Close()

	threads := []models.ChatThread{}
	for rows.Next() {
		var t models.ChatThread
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt, &t.MessageCount); err != nil {
			return nil, fmt.Errorf("scan chat thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (s *Store) AppendMessage(ctx context.Context, threadID, role, content string) (*models.ChatMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := models.ChatMessage{Role: role, Content: content}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO chat_messages (thread_id, role, content) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		threadID, role, content,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_threads SET updated_at = $2 WHERE id = $1`, threadID, m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("touch chat thread: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteThread(ctx context.Context, userID int64, threadID string) error {
	if _, err := uuid.Parse(threadID); err != nil {
		return ErrThreadNotFound
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_threads WHERE id = $1 AND user_id = $2`, threadID, userID)
	if err != nil {
		return fmt.Errorf("delete chat thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrThreadNotFound
	}
	return nil
}
