package studyplan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrNoPlan = errors.New("no study plan saved")

// Repository stores one plan snapshot per user. Saving overwrites.
type Repository interface {
	SavePlan(ctx context.Context, userID int64, plan *Plan) error
	GetPlan(ctx context.Context, userID int64) (*Plan, error)
	DeletePlan(ctx context.Context, userID int64) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Generate validates the draft, checks it fits before the exam and saves
// the resulting plan as the user's current snapshot.
func (s *Service) Generate(ctx context.Context, userID int64, d Draft) (*Plan, error) {
	plan, err := Generate(d, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SavePlan(ctx, userID, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	log.Printf("[studyplan] user %d: %d subjects, %.1fh over %d days", userID, len(plan.Subjects), plan.TotalHours, plan.DaysUntilExam)
	return plan, nil
}

func (s *Service) Current(ctx context.Context, userID int64) (*Plan, error) {
	return s.repo.GetPlan(ctx, userID)
}

func (s *Service) Discard(ctx context.Context, userID int64) error {
	return s.repo.DeletePlan(ctx, userID)
}
