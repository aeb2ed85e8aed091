package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/questionbank"
)

var ErrQuizNotFound = errors.New("quiz not found")

// Rewarder credits quiz rewards to a user's running total.
type Rewarder interface {
	AwardQuiz(ctx context.Context, userID int64, quizID int, topic, difficulty string, score, total, earned int) (int64, error)
	Total(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	bank     *questionbank.Bank
	registry *Registry
	rewards  Rewarder
	attempts AttemptStore
	rng      RandSource
}

func NewService(bank *questionbank.Bank, registry *Registry, rewards Rewarder, attempts AttemptStore) *Service {
	return &Service{
		bank:     bank,
		registry: registry,
		rewards:  rewards,
		attempts: attempts,
		rng:      DefaultRand,
	}
}

// ── Catalog ─────────────────────────────────────────────

func (s *Service) Catalog() []models.QuizCard {
	quizzes := s.bank.Quizzes()
	cards := make([]models.QuizCard, 0, len(quizzes))
	for _, q := range quizzes {
		cards = append(cards, models.QuizCard{
			ID:            q.ID,
			Title:         q.Title,
			Subject:       q.Subject,
			QuestionCount: q.QuestionCount,
			TimeEstimate:  q.TimeEstimate,
			Difficulty:    string(q.Difficulty),
			Points:        q.Points,
			PoolSize:      s.bank.PoolSize(q.Title, q.Difficulty),
		})
	}
	return cards
}

// ── Session Lifecycle ───────────────────────────────────

func (s *Service) StartQuiz(ctx context.Context, userID int64, quizID int) (*models.QuizSessionResponse, error) {
	q, ok := s.bank.Quiz(quizID)
	if !ok {
		return nil, ErrQuizNotFound
	}

	sess := NewSession(s.bank, s.rng)
	err := sess.Start(Config{
		QuizID:         q.ID,
		Topic:          q.Title,
		Difficulty:     q.Difficulty,
		TotalQuestions: q.QuestionCount,
		BasePoints:     q.Points,
	})
	if err != nil {
		return nil, err
	}

	id := s.registry.Add(userID, sess)
	log.Printf("[quiz] user %d started %q (%s), session %s", userID, q.Title, q.Difficulty, id)
	return s.view(id, sess, nil), nil
}

func (s *Service) Get(ctx context.Context, userID int64, sessionID string) (*models.QuizSessionResponse, error) {
	return s.apply(ctx, userID, sessionID, func(*Session) error { return nil })
}

func (s *Service) Answer(ctx context.Context, userID int64, sessionID string, option int) (*models.QuizSessionResponse, error) {
	return s.apply(ctx, userID, sessionID, func(sess *Session) error {
		_, err := sess.SubmitAnswer(option)
		return err
	})
}

func (s *Service) Next(ctx context.Context, userID int64, sessionID string) (*models.QuizSessionResponse, error) {
	return s.apply(ctx, userID, sessionID, func(sess *Session) error {
		return sess.Advance()
	})
}

func (s *Service) Resolve(ctx context.Context, userID int64, sessionID string, opt ExhaustionOption) (*models.QuizSessionResponse, error) {
	resp, err := s.apply(ctx, userID, sessionID, func(sess *Session) error {
		return sess.Resolve(opt)
	})
	if err != nil {
		return nil, err
	}
	if opt == OptionChooseAnother || opt == OptionHome {
		if err := s.registry.Remove(sessionID, userID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}
	return resp, nil
}

func (s *Service) Abandon(ctx context.Context, userID int64, sessionID string) error {
	return s.registry.Remove(sessionID, userID)
}

// apply runs op on the session and settles the reward the first time the
// session is seen completed.
func (s *Service) apply(ctx context.Context, userID int64, sessionID string, op func(*Session) error) (*models.QuizSessionResponse, error) {
	var resp *models.QuizSessionResponse
	err := s.registry.With(sessionID, userID, func(sess *Session, rewarded *bool) error {
		if err := op(sess); err != nil {
			return err
		}
		total, err := s.settle(ctx, userID, sess, rewarded)
		if err != nil {
			return err
		}
		resp = s.view(sessionID, sess, total)
		return nil
	})
	return resp, err
}

func (s *Service) settle(ctx context.Context, userID int64, sess *Session, rewarded *bool) (*int64, error) {
	if sess.State() != StateCompleted {
		return nil, nil
	}
	if *rewarded {
		total, err := s.rewards.Total(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("read points total: %w", err)
		}
		return &total, nil
	}

	cfg := sess.Config()
	total, err := s.rewards.AwardQuiz(ctx, userID, cfg.QuizID, cfg.Topic, string(cfg.Difficulty),
		sess.Score(), cfg.TotalQuestions, sess.Reward())
	if err != nil {
		return nil, err
	}
	*rewarded = true

	if s.attempts != nil {
		_, err := s.attempts.RecordAttempt(ctx, userID, models.QuizAttempt{
			QuizID:          cfg.QuizID,
			Topic:           cfg.Topic,
			Difficulty:      string(cfg.Difficulty),
			Score:           sess.Score(),
			TotalQuestions:  cfg.TotalQuestions,
			PointsEarned:    sess.Reward(),
			DurationSeconds: int(sess.Elapsed() / time.Second),
			CompletedAt:     sess.CompletedAt(),
		})
		if err != nil {
			log.Printf("WARN: [quiz] record attempt for user %d: %v", userID, err)
		}
	}
	return &total, nil
}

func (s *Service) view(id string, sess *Session, totalPoints *int64) *models.QuizSessionResponse {
	cfg := sess.Config()
	resp := &models.QuizSessionResponse{
		SessionID:      id,
		QuizID:         cfg.QuizID,
		Topic:          cfg.Topic,
		Difficulty:     string(cfg.Difficulty),
		State:          string(sess.State()),
		Score:          sess.Score(),
		AnsweredCount:  sess.AnsweredCount(),
		TotalQuestions: cfg.TotalQuestions,
	}

	if q := sess.Current(); q != nil {
		resp.Question = &models.QuizQuestionView{
			Number:  sess.AnsweredCount() + 1,
			Prompt:  q.Prompt,
			Options: q.Options,
		}
		if a := sess.LastAnswer(); a != nil {
			resp.Answer = &models.QuizAnswerView{
				Selected:      a.Selected,
				Correct:       a.Correct,
				CorrectOption: a.CorrectOption,
				Explanation:   a.Explanation,
			}
		}
	}

	if sess.Exhausted() {
		choices := ExhaustionChoices()
		ex := &models.QuizExhaustionView{
			Prompt:      ExhaustedPrompt,
			Explanation: ExhaustedExplanation,
			Choices:     make([]models.ExhaustionChoiceView, len(choices)),
		}
		for i, c := range choices {
			ex.Choices[i] = models.ExhaustionChoiceView{Option: string(c.Option), Label: c.Label}
		}
		resp.Exhaustion = ex
	}

	if sess.State() == StateCompleted {
		result := &models.QuizResultView{
			Score:          sess.Score(),
			TotalQuestions: cfg.TotalQuestions,
			PointsEarned:   sess.Reward(),
			TimeTaken:      FormatDuration(sess.Elapsed()),
		}
		if totalPoints != nil {
			result.TotalPoints = *totalPoints
		}
		resp.Result = result
	}
	return resp
}

// ── History ─────────────────────────────────────────────

func (s *Service) History(ctx context.Context, userID int64, page, pageSize int) (*models.ListResponse[models.QuizAttempt], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if s.attempts == nil {
		return &models.ListResponse[models.QuizAttempt]{Items: []models.QuizAttempt{}, Page: page, PageSize: pageSize}, nil
	}
	items, total, err := s.attempts.ListAttempts(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.ListResponse[models.QuizAttempt]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}
