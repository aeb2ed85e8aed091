package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/studybuddy/backend/internal/questionbank"
)

// seqRand returns the queued values in order, then zeros.
type seqRand struct {
	values []int
	calls  []int
}

func (r *seqRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

type fakePool map[string]map[questionbank.Difficulty][]questionbank.Question

func (p fakePool) Lookup(topic string, d questionbank.Difficulty) []questionbank.Question {
	out := p[topic][d]
	if out == nil {
		return []questionbank.Question{}
	}
	return out
}

func makeQuestions(n int) []questionbank.Question {
	qs := make([]questionbank.Question, n)
	for i := range qs {
		qs[i] = questionbank.Question{
			Prompt:        fmt.Sprintf("Q%d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 0,
			Explanation:   fmt.Sprintf("E%d", i),
		}
	}
	return qs
}

func testPool() fakePool {
	return fakePool{
		"Topic": {
			questionbank.Easy:   makeQuestions(10),
			questionbank.Medium: makeQuestions(3),
			questionbank.Hard:   makeQuestions(4),
		},
	}
}

func answerAndAdvance(t *testing.T, s *Session, option int) {
	t.Helper()
	if _, err := s.SubmitAnswer(option); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
}

func TestSessionFullRunCompletesWithReward(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 10, BasePoints: 50}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 10; i++ {
		if s.State() != StateInProgress {
			t.Fatalf("question %d: state = %s", i, s.State())
		}
		answerAndAdvance(t, s, 0)
	}

	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want completed", s.State())
	}
	if s.Score() != 10 {
		t.Errorf("score = %d, want 10", s.Score())
	}
	if s.Reward() != 50 {
		t.Errorf("reward = %d, want 50", s.Reward())
	}
	if s.AskedCount() != 10 {
		t.Errorf("asked = %d, want 10", s.AskedCount())
	}
}

func TestSessionNeverRepeatsQuestions(t *testing.T) {
	s := NewSession(testPool(), &seqRand{values: []int{3, 7, 1, 5, 0, 2, 4, 1, 0, 0}})
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 10, BasePoints: 50}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	seen := map[string]bool{}
	for s.State() == StateInProgress {
		q := s.Current()
		if q == nil {
			t.Fatal("no current question while in progress")
		}
		if seen[q.Prompt] {
			t.Fatalf("question %s asked twice", q.Prompt)
		}
		seen[q.Prompt] = true
		answerAndAdvance(t, s, 1)
	}
	if len(seen) != 10 {
		t.Errorf("saw %d distinct questions, want 10", len(seen))
	}
	if s.Score() != 0 || s.Reward() != 0 {
		t.Errorf("score = %d reward = %d, want 0/0", s.Score(), s.Reward())
	}
}

func TestSessionExhaustionMidQuiz(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	// Eight questions configured but only three in the pool.
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Medium, TotalQuestions: 8, BasePoints: 80}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		answerAndAdvance(t, s, 0)
	}

	if !s.Exhausted() {
		t.Fatal("expected exhaustion after the pool ran out")
	}
	if s.State() != StateInProgress {
		t.Errorf("state = %s, want in_progress", s.State())
	}
	if s.Current() != nil {
		t.Error("Current() should be nil on the exhaustion screen")
	}
	if _, err := s.SubmitAnswer(0); !errors.Is(err, ErrExhausted) {
		t.Errorf("SubmitAnswer err = %v, want ErrExhausted", err)
	}
	if err := s.Advance(); !errors.Is(err, ErrExhausted) {
		t.Errorf("Advance err = %v, want ErrExhausted", err)
	}
	if s.AnsweredCount() > 8 || s.Score() > s.AnsweredCount() {
		t.Errorf("invariant broken: score=%d answered=%d", s.Score(), s.AnsweredCount())
	}
}

func TestSessionResolveOptions(t *testing.T) {
	exhaust := func(t *testing.T) *Session {
		s := NewSession(testPool(), &seqRand{})
		if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Medium, TotalQuestions: 8, BasePoints: 80}); err != nil {
			t.Fatalf("Start: %v", err)
		}
		for i := 0; i < 3; i++ {
			answerAndAdvance(t, s, 0)
		}
		return s
	}

	t.Run("retry", func(t *testing.T) {
		s := exhaust(t)
		if err := s.Resolve(OptionRetry); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if s.State() != StateInProgress || s.Exhausted() || s.Score() != 0 || s.AnsweredCount() != 0 {
			t.Errorf("retry did not reset: state=%s exhausted=%t score=%d", s.State(), s.Exhausted(), s.Score())
		}
		if s.Current() == nil {
			t.Error("retry should select a fresh question")
		}
	})

	t.Run("view results", func(t *testing.T) {
		s := exhaust(t)
		if err := s.Resolve(OptionViewResults); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if s.State() != StateCompleted {
			t.Errorf("state = %s, want completed", s.State())
		}
		// round(80 * 3/8 * 1.2) = 36
		if s.Reward() != 36 {
			t.Errorf("reward = %d, want 36", s.Reward())
		}
	})

	for _, opt := range []ExhaustionOption{OptionChooseAnother, OptionHome} {
		t.Run(string(opt), func(t *testing.T) {
			s := exhaust(t)
			if err := s.Resolve(opt); err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if s.State() != StateNotStarted || s.Reward() != 0 {
				t.Errorf("state=%s reward=%d, want not_started/0", s.State(), s.Reward())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		s := exhaust(t)
		if err := s.Resolve("dance"); err == nil {
			t.Error("expected error for unknown option")
		}
	})

	t.Run("not exhausted", func(t *testing.T) {
		s := NewSession(testPool(), &seqRand{})
		if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 2, BasePoints: 10}); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if err := s.Resolve(OptionRetry); !errors.Is(err, ErrNotExhausted) {
			t.Errorf("err = %v, want ErrNotExhausted", err)
		}
	})
}

func TestSubmitAnswerIsIdempotent(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Hard, TotalQuestions: 4, BasePoints: 120}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	first, err := s.SubmitAnswer(0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	second, err := s.SubmitAnswer(2)
	if err != nil {
		t.Fatalf("second SubmitAnswer: %v", err)
	}
	if second != first {
		t.Errorf("second submission = %+v, want %+v", second, first)
	}
	if s.Score() != 1 {
		t.Errorf("score = %d, want 1", s.Score())
	}
	if s.AnsweredCount() != 0 {
		t.Errorf("answered = %d, SubmitAnswer must not advance", s.AnsweredCount())
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	if err := s.Advance(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Advance before Start err = %v", err)
	}
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 3, BasePoints: 50}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Errorf("Advance err = %v, want ErrNotAnswered", err)
	}
}

func TestSubmitAnswerRejectsBadOption(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 3, BasePoints: 50}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, opt := range []int{-1, 4} {
		if _, err := s.SubmitAnswer(opt); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("SubmitAnswer(%d) err = %v", opt, err)
		}
	}
	if s.LastAnswer() != nil {
		t.Error("rejected option must not be recorded")
	}
}

func TestStartEmptyPool(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	err := s.Start(Config{Topic: "Missing", Difficulty: questionbank.Easy, TotalQuestions: 5, BasePoints: 50})
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("err = %v, want ErrEmptyPool", err)
	}
	if s.State() != StateNotStarted {
		t.Errorf("state = %s, want not_started", s.State())
	}
}

func TestStartResetsProgress(t *testing.T) {
	s := NewSession(testPool(), &seqRand{})
	cfg := Config{Topic: "Topic", Difficulty: questionbank.Easy, TotalQuestions: 5, BasePoints: 50}
	if err := s.Start(cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	answerAndAdvance(t, s, 0)
	answerAndAdvance(t, s, 0)
	if err := s.Start(cfg); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Score() != 0 || s.AnsweredCount() != 0 || s.AskedCount() != 0 {
		t.Errorf("restart left score=%d answered=%d asked=%d", s.Score(), s.AnsweredCount(), s.AskedCount())
	}
}

func TestSelectionUsesInjectedRandom(t *testing.T) {
	rng := &seqRand{values: []int{2}}
	s := NewSession(testPool(), rng)
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Hard, TotalQuestions: 4, BasePoints: 120}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if q := s.Current(); q == nil || q.Prompt != "Q2" {
		t.Errorf("current = %+v, want Q2", q)
	}
	if len(rng.calls) != 1 || rng.calls[0] != 4 {
		t.Errorf("Intn calls = %v, want [4]", rng.calls)
	}
	answerAndAdvance(t, s, 0)
	if rng.calls[1] != 3 {
		t.Errorf("second pick drew from %d candidates, want 3", rng.calls[1])
	}
}

func TestElapsed(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	s := NewSession(testPool(), &seqRand{})
	s.now = func() time.Time { return clock }
	if err := s.Start(Config{Topic: "Topic", Difficulty: questionbank.Hard, TotalQuestions: 1, BasePoints: 120}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock = base.Add(95 * time.Second)
	answerAndAdvance(t, s, 0)
	clock = base.Add(time.Hour)
	if got := s.Elapsed(); got != 95*time.Second {
		t.Errorf("Elapsed = %v, want 95s", got)
	}
}
