package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/questionbank"
)

type fakeRewarder struct {
	mu     sync.Mutex
	totals map[int64]int64
	awards int
}

func (f *fakeRewarder) AwardQuiz(_ context.Context, userID int64, _ int, _, _ string, _, _, earned int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.totals == nil {
		f.totals = map[int64]int64{}
	}
	f.awards++
	f.totals[userID] += int64(earned)
	return f.totals[userID], nil
}

func (f *fakeRewarder) Total(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals[userID], nil
}

type memAttempts struct {
	attempts []models.QuizAttempt
}

func (m *memAttempts) RecordAttempt(_ context.Context, _ int64, a models.QuizAttempt) (int64, error) {
	a.ID = int64(len(m.attempts) + 1)
	m.attempts = append(m.attempts, a)
	return a.ID, nil
}

func (m *memAttempts) ListAttempts(_ context.Context, _ int64, limit, offset int) ([]models.QuizAttempt, int, error) {
	if offset >= len(m.attempts) {
		return []models.QuizAttempt{}, len(m.attempts), nil
	}
	end := offset + limit
	if end > len(m.attempts) {
		end = len(m.attempts)
	}
	return m.attempts[offset:end], len(m.attempts), nil
}

func newTestService(t *testing.T) (*Service, *fakeRewarder, *memAttempts) {
	t.Helper()
	bank, err := questionbank.Default()
	require.NoError(t, err)
	rewards := &fakeRewarder{}
	attempts := &memAttempts{}
	svc := NewService(bank, NewRegistry(), rewards, attempts)
	svc.rng = &seqRand{}
	return svc, rewards, attempts
}

// correctOption looks up the right answer for the question on screen.
func correctOption(t *testing.T, svc *Service, resp *models.QuizSessionResponse) int {
	t.Helper()
	q, ok := svc.bank.Quiz(resp.QuizID)
	require.True(t, ok)
	for _, bq := range svc.bank.Lookup(q.Title, q.Difficulty) {
		if bq.Prompt == resp.Question.Prompt {
			return bq.CorrectOption
		}
	}
	t.Fatalf("question %q not in bank", resp.Question.Prompt)
	return -1
}

func TestCatalogIncludesPoolSize(t *testing.T) {
	svc, _, _ := newTestService(t)
	cards := svc.Catalog()
	require.Len(t, cards, 3)
	assert.Equal(t, "xyz", cards[1].Title)
	assert.Equal(t, 8, cards[1].QuestionCount)
	assert.Equal(t, 3, cards[1].PoolSize)
}

func TestServiceExhaustionThenViewResultsAwardsOnce(t *testing.T) {
	svc, rewards, attempts := newTestService(t)
	ctx := context.Background()

	resp, err := svc.StartQuiz(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, 1, resp.Question.Number)

	for i := 0; i < 3; i++ {
		resp, err = svc.Answer(ctx, 1, resp.SessionID, correctOption(t, svc, resp))
		require.NoError(t, err)
		require.NotNil(t, resp.Answer)
		assert.True(t, resp.Answer.Correct)
		resp, err = svc.Next(ctx, 1, resp.SessionID)
		require.NoError(t, err)
	}

	require.NotNil(t, resp.Exhaustion)
	assert.Nil(t, resp.Question)
	assert.Equal(t, ExhaustedPrompt, resp.Exhaustion.Prompt)
	assert.Len(t, resp.Exhaustion.Choices, 4)

	_, err = svc.Next(ctx, 1, resp.SessionID)
	assert.ErrorIs(t, err, ErrExhausted)

	resp, err = svc.Resolve(ctx, 1, resp.SessionID, OptionViewResults)
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, string(StateCompleted), resp.State)
	assert.Equal(t, 36, resp.Result.PointsEarned)
	assert.Equal(t, int64(36), resp.Result.TotalPoints)

	resp, err = svc.Get(ctx, 1, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(36), resp.Result.TotalPoints)
	assert.Equal(t, 1, rewards.awards)
	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, 3, attempts.attempts[0].Score)
	assert.Equal(t, 8, attempts.attempts[0].TotalQuestions)
}

func TestServiceLeavingExhaustedQuizDropsSession(t *testing.T) {
	for _, opt := range []ExhaustionOption{OptionChooseAnother, OptionHome} {
		t.Run(string(opt), func(t *testing.T) {
			svc, rewards, _ := newTestService(t)
			ctx := context.Background()

			resp, err := svc.StartQuiz(ctx, 1, 2)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				resp, err = svc.Answer(ctx, 1, resp.SessionID, correctOption(t, svc, resp))
				require.NoError(t, err)
				resp, err = svc.Next(ctx, 1, resp.SessionID)
				require.NoError(t, err)
			}
			require.NotNil(t, resp.Exhaustion)

			resp, err = svc.Resolve(ctx, 1, resp.SessionID, opt)
			require.NoError(t, err)
			assert.Equal(t, string(StateNotStarted), resp.State)
			assert.Nil(t, resp.Result)

			_, err = svc.Get(ctx, 1, resp.SessionID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
			assert.Equal(t, 0, svc.registry.Len())
			assert.Equal(t, 0, rewards.awards)
		})
	}
}

func TestServiceFullRunCompletes(t *testing.T) {
	svc, rewards, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.StartQuiz(ctx, 3, 1)
	require.NoError(t, err)
	for resp.State == string(StateInProgress) {
		resp, err = svc.Answer(ctx, 3, resp.SessionID, correctOption(t, svc, resp))
		require.NoError(t, err)
		resp, err = svc.Next(ctx, 3, resp.SessionID)
		require.NoError(t, err)
	}
	require.NotNil(t, resp.Result)
	assert.Equal(t, 10, resp.Result.Score)
	assert.Equal(t, 50, resp.Result.PointsEarned)
	assert.Equal(t, 1, rewards.awards)
}

func TestServiceErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartQuiz(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	resp, err := svc.StartQuiz(ctx, 1, 3)
	require.NoError(t, err)

	_, err = svc.Next(ctx, 1, resp.SessionID)
	assert.ErrorIs(t, err, ErrNotAnswered)

	_, err = svc.Answer(ctx, 1, resp.SessionID, 4)
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = svc.Resolve(ctx, 1, resp.SessionID, OptionRetry)
	assert.ErrorIs(t, err, ErrNotExhausted)

	_, err = svc.Get(ctx, 2, resp.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.Abandon(ctx, 1, resp.SessionID))
	_, err = svc.Get(ctx, 1, resp.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHistoryPagination(t *testing.T) {
	svc, _, attempts := newTestService(t)
	for i := 0; i < 3; i++ {
		attempts.attempts = append(attempts.attempts, models.QuizAttempt{QuizID: 1, CompletedAt: time.Now()})
	}

	page, err := svc.History(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.History(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
}

func doQuiz(t *testing.T, r http.Handler, method, path string, body interface{}, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStatusCodes(t *testing.T) {
	svc, _, _ := newTestService(t)
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := doQuiz(t, r, http.MethodGet, "/quizzes", nil, 1)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doQuiz(t, r, http.MethodPost, "/quizzes/42/sessions", nil, 1)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doQuiz(t, r, http.MethodPost, "/quizzes/1/sessions", nil, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started models.QuizSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	base := "/quiz-sessions/" + started.SessionID

	rec = doQuiz(t, r, http.MethodPost, base+"/answer", map[string]interface{}{}, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doQuiz(t, r, http.MethodPost, base+"/next", nil, 1)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doQuiz(t, r, http.MethodPost, base+"/answer", map[string]int{"option": 9}, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doQuiz(t, r, http.MethodPost, base+"/answer", map[string]int{"option": 0}, 1)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doQuiz(t, r, http.MethodGet, base, nil, 2)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doQuiz(t, r, http.MethodDelete, base, nil, 1)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doQuiz(t, r, http.MethodGet, "/quiz-history", nil, 1)
	assert.Equal(t, http.StatusOK, rec.Code)
}
