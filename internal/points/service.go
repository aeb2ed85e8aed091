package points

import (
	"context"
	"fmt"
	"log"

	"github.com/studybuddy/backend/internal/models"
)

const (
	EventQuizCompleted = "quiz_completed"
	EventManual        = "manual"
)

// Event is one change to a user's running total.
type Event struct {
	Type     string
	Amount   int
	Metadata map[string]interface{}
}

// Ledger keeps one running total per user. Award must be atomic per user.
type Ledger interface {
	Award(ctx context.Context, userID int64, e Event) (int64, error)
	Total(ctx context.Context, userID int64) (int64, error)
}

// Board is the read side used by the API.
type Board interface {
	Summary(ctx context.Context, userID int64) (*models.PointsSummary, error)
	RecentEvents(ctx context.Context, userID int64, limit int) ([]models.PointEvent, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type Service struct {
	ledger Ledger
	board  Board
}

// NewService wires a ledger and an optional board (nil in the CLI).
func NewService(ledger Ledger, board Board) *Service {
	return &Service{ledger: ledger, board: board}
}

// AwardQuiz credits the reward for a finished quiz and returns the new total.
func (s *Service) AwardQuiz(ctx context.Context, userID int64, quizID int, topic string, difficulty string, score, total, earned int) (int64, error) {
	newTotal, err := s.ledger.Award(ctx, userID, Event{
		Type:   EventQuizCompleted,
		Amount: earned,
		Metadata: map[string]interface{}{
			"quiz_id":    quizID,
			"topic":      topic,
			"difficulty": difficulty,
			"score":      score,
			"total":      total,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("award quiz points: %w", err)
	}
	log.Printf("[points] user %d earned %d (%s %s %d/%d), total %d", userID, earned, topic, difficulty, score, total, newTotal)
	return newTotal, nil
}

func (s *Service) Total(ctx context.Context, userID int64) (int64, error) {
	return s.ledger.Total(ctx, userID)
}

func (s *Service) Summary(ctx context.Context, userID int64) (*models.PointsSummary, error) {
	if s.board == nil {
		total, err := s.ledger.Total(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &models.PointsSummary{UserID: userID, TotalPoints: total}, nil
	}
	return s.board.Summary(ctx, userID)
}

func (s *Service) RecentEvents(ctx context.Context, userID int64, limit int) ([]models.PointEvent, error) {
	if s.board == nil {
		return []models.PointEvent{}, nil
	}
	return s.board.RecentEvents(ctx, userID, limit)
}

// Leaderboard returns the top users, flagging the caller's own row.
func (s *Service) Leaderboard(ctx context.Context, userID int64, limit int) ([]models.LeaderboardEntry, error) {
	if s.board == nil {
		return []models.LeaderboardEntry{}, nil
	}
	entries, err := s.board.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].IsCurrentUser = entries[i].UserID == userID
	}
	return entries, nil
}
