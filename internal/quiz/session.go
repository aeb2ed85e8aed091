package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/studybuddy/backend/internal/questionbank"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

var (
	ErrEmptyPool     = errors.New("no questions available for this topic and difficulty")
	ErrNotInProgress = errors.New("quiz is not in progress")
	ErrNotAnswered   = errors.New("submit an answer before moving on")
	ErrInvalidOption = errors.New("option index out of range")
	ErrExhausted     = errors.New("all questions for this topic have been used")
	ErrNotExhausted  = errors.New("quiz still has questions left")
	ErrUnknownOption = errors.New("unknown option")
)

// RandSource picks an index in [0, n).
type RandSource interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand uses the shared math/rand source, which is safe for concurrent use.
var DefaultRand RandSource = globalRand{}

// Pool is the part of the question bank a session reads from.
type Pool interface {
	Lookup(topic string, difficulty questionbank.Difficulty) []questionbank.Question
}

// Config describes one run of a quiz.
type Config struct {
	QuizID         int
	Topic          string
	Difficulty     questionbank.Difficulty
	TotalQuestions int
	BasePoints     int
}

// Answer is the outcome of the submission for the current question.
type Answer struct {
	Selected      int
	Correct       bool
	CorrectOption int
	Explanation   string
}

// Session is a single-player quiz run. It is not safe for concurrent use;
// the Registry serialises access per session.
type Session struct {
	pool Pool
	rng  RandSource
	now  func() time.Time

	cfg       Config
	questions []questionbank.Question

	state     State
	asked     map[int]bool
	score     int
	answered  int
	current   int
	answer    *Answer
	exhausted bool
	reward    int

	startedAt   time.Time
	completedAt time.Time
}

func NewSession(pool Pool, rng RandSource) *Session {
	if rng == nil {
		rng = DefaultRand
	}
	return &Session{
		pool:    pool,
		rng:     rng,
		now:     time.Now,
		state:   StateNotStarted,
		current: -1,
	}
}

// Start resets all progress and selects the first question.
func (s *Session) Start(cfg Config) error {
	if cfg.TotalQuestions <= 0 {
		return fmt.Errorf("total questions must be positive, got %d", cfg.TotalQuestions)
	}
	questions := s.pool.Lookup(cfg.Topic, cfg.Difficulty)
	if len(questions) == 0 {
		return ErrEmptyPool
	}

	s.cfg = cfg
	s.questions = questions
	s.asked = make(map[int]bool)
	s.score = 0
	s.answered = 0
	s.answer = nil
	s.exhausted = false
	s.reward = 0
	s.startedAt = s.now()
	s.completedAt = time.Time{}
	s.state = StateInProgress

	s.selectQuestion()
	return nil
}

func (s *Session) selectQuestion() {
	var available []int
	for i := range s.questions {
		if !s.asked[i] {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		if s.answered > 0 {
			s.current = -1
			s.exhausted = true
			return
		}
		for i := range s.questions {
			available = append(available, i)
		}
	}
	s.current = available[s.rng.Intn(len(available))]
	s.answer = nil
}

// SubmitAnswer records the answer for the current question. A second
// submission for the same question returns the first result unchanged.
func (s *Session) SubmitAnswer(option int) (Answer, error) {
	if s.state != StateInProgress {
		return Answer{}, ErrNotInProgress
	}
	if s.exhausted {
		return Answer{}, ErrExhausted
	}
	if s.answer != nil {
		return *s.answer, nil
	}
	q := s.questions[s.current]
	if option < 0 || option >= len(q.Options) {
		return Answer{}, ErrInvalidOption
	}

	a := Answer{
		Selected:      option,
		Correct:       option == q.CorrectOption,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
	}
	if a.Correct {
		s.score++
	}
	s.answer = &a
	return a, nil
}

// Advance moves past an answered question, completing the quiz when the
// configured number of questions has been answered.
func (s *Session) Advance() error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if s.exhausted {
		return ErrExhausted
	}
	if s.answer == nil {
		return ErrNotAnswered
	}

	s.asked[s.current] = true
	s.answered++
	s.answer = nil

	if s.answered >= s.cfg.TotalQuestions {
		s.complete()
		return nil
	}
	s.selectQuestion()
	return nil
}

func (s *Session) complete() {
	s.state = StateCompleted
	s.current = -1
	s.exhausted = false
	s.completedAt = s.now()
	s.reward = PointsEarned(s.cfg.BasePoints, s.score, s.cfg.TotalQuestions, s.cfg.Difficulty)
}

// Abandon returns the session to NotStarted without a reward.
func (s *Session) Abandon() {
	s.state = StateNotStarted
	s.current = -1
	s.exhausted = false
	s.answer = nil
}

// Resolve handles a choice made on the exhaustion screen.
func (s *Session) Resolve(opt ExhaustionOption) error {
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if !s.exhausted {
		return ErrNotExhausted
	}
	switch opt {
	case OptionRetry:
		return s.Start(s.cfg)
	case OptionViewResults:
		s.complete()
		return nil
	case OptionChooseAnother, OptionHome:
		s.Abandon()
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownOption, opt)
}

// ── Accessors ────────────────────────────────────────────

func (s *Session) State() State { return s.state }
func (s *Session) Config() Config { return s.cfg }
func (s *Session) Score() int { return s.score }
func (s *Session) AnsweredCount() int { return s.answered }
func (s *Session) Exhausted() bool { return s.exhausted }
func (s *Session) Reward() int { return s.reward }
func (s *Session) AskedCount() int { return len(s.asked) }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) CompletedAt() time.Time { return s.completedAt }

// Current returns the question on screen, or nil when there is none.
func (s *Session) Current() *questionbank.Question {
	if s.state != StateInProgress || s.exhausted || s.current < 0 {
		return nil
	}
	q := s.questions[s.current]
	return &q
}

// LastAnswer is the submission for the current question, if any.
func (s *Session) LastAnswer() *Answer {
	if s.answer == nil {
		return nil
	}
	a := *s.answer
	return &a
}

// Elapsed is the time from Start to completion, or to now while running.
func (s *Session) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	if !s.completedAt.IsZero() {
		return s.completedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}
