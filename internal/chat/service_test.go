package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

type memRepo struct {
	mu      sync.Mutex
	nextID  int
	threads map[string]*models.ChatThread
	owners  map[string]int64
}

func newMemRepo() *memRepo {
	return &memRepo{threads: map[string]*models.ChatThread{}, owners: map[string]int64{}}
}

func (m *memRepo) CreateThread(_ context.Context, userID int64, title string) (*models.ChatThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &models.ChatThread{ID: fmt.Sprintf("t%d", m.nextID), Title: title, CreatedAt: time.Now()}
	m.threads[t.ID] = t
	m.owners[t.ID] = userID
	cp := *t
	return &cp, nil
}

func (m *memRepo) GetThread(_ context.Context, userID int64, id string) (*models.ChatThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok || m.owners[id] != userID {
		return nil, ErrThreadNotFound
	}
	cp := *t
	cp.Messages = append([]models.ChatMessage{}, t.Messages...)
	cp.MessageCount = len(cp.Messages)
	return &cp, nil
}

func (m *memRepo) ListThreads(_ context.Context, userID int64, _ int) ([]models.ChatThread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChatThread{}
	for id, t := range m.threads {
		if m.owners[id] == userID {
			out = append(out, models.ChatThread{ID: t.ID, Title: t.Title, MessageCount: len(t.Messages)})
		}
	}
	return out, nil
}

func (m *memRepo) AppendMessage(_ context.Context, threadID, role, content string) (*models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.threads[threadID]
	msg := models.ChatMessage{ID: int64(len(t.Messages) + 1), Role: role, Content: content, CreatedAt: time.Now()}
	t.Messages = append(t.Messages, msg)
	return &msg, nil
}

func (m *memRepo) DeleteThread(_ context.Context, userID int64, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.threads[id]; !ok || m.owners[id] != userID {
		return ErrThreadNotFound
	}
	delete(m.threads, id)
	return nil
}

func TestSendCreatesThreadAndCarriesHistory(t *testing.T) {
	repo := newMemRepo()
	mock := llm.NewMockProvider(llm.MockResponse{Content: "Start with SELECT."}, llm.MockResponse{Content: "Then JOIN."})
	svc := NewService(repo, mock, time.Second)
	ctx := context.Background()

	long := strings.Repeat("how do I learn sql ", 10)
	first, err := svc.Send(ctx, 1, "", long)
	require.NoError(t, err)
	assert.Equal(t, "Start with SELECT.", first.Reply.Content)
	assert.Equal(t, "assistant", first.Reply.Role)

	thread, err := svc.Thread(ctx, 1, first.ThreadID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(thread.Title, "..."))
	assert.LessOrEqual(t, len([]rune(thread.Title)), titleLength+3)

	second, err := svc.Send(ctx, 1, first.ThreadID, "and next?")
	require.NoError(t, err)
	assert.Equal(t, "Then JOIN.", second.Reply.Content)

	require.Equal(t, 2, mock.CallCount())
	last := mock.Calls[1]
	assert.Equal(t, systemPrompt, last.System)
	require.Len(t, last.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, last.Messages[1].Role)
	assert.Equal(t, "and next?", last.Messages[2].Content)
	assert.Equal(t, 0.7, last.Temperature)
}

func TestSendFailureKeepsUserMessageOnly(t *testing.T) {
	repo := newMemRepo()
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.StatusError{StatusCode: 500}})
	svc := NewService(repo, mock, time.Second)

	_, err := svc.Send(context.Background(), 1, "", "explain normalization")
	var re *llm.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, llm.ReasonGenerate, re.Reason)

	threads, _ := svc.Threads(context.Background(), 1, 10)
	require.Len(t, threads, 1)
	thread, _ := svc.Thread(context.Background(), 1, threads[0].ID)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "user", thread.Messages[0].Role)
}

func TestSendRejectsEmptyAndForeignThreads(t *testing.T) {
	svc := NewService(newMemRepo(), llm.NewMockProvider(), time.Second)
	ctx := context.Background()

	_, err := svc.Send(ctx, 1, "", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	resp, err := svc.Send(ctx, 1, "", "hello")
	require.NoError(t, err)
	_, err = svc.Send(ctx, 2, resp.ThreadID, "mine now")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestOutlinePrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "Week 1: basics"})
	svc := NewService(newMemRepo(), mock, time.Second)

	out, err := svc.Outline(context.Background(), models.OutlineRequest{Subject: "SQL", Duration: "4 weeks", Goals: "Pass the exam"})
	require.NoError(t, err)
	assert.Equal(t, "Week 1: basics", out.Outline)
	assert.Equal(t, "SQL", out.Subject)
	prompt := mock.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "Subject: SQL\nDuration: 4 weeks\nLearning Goals: Pass the exam")
	assert.Contains(t, prompt, "5. Milestones and progress tracking")

	_, err = svc.Outline(context.Background(), models.OutlineRequest{Subject: "SQL"})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}

func TestHandlerTimeoutIs504(t *testing.T) {
	b := &blockingProvider{release: make(chan struct{})}
	defer close(b.release)
	svc := NewService(newMemRepo(), b, 20*time.Millisecond)
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	body, _ := json.Marshal(models.SendMessageRequest{Content: "hello?"})
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, llm.ReasonNoResponse, resp.Error)
}

func TestHandlerThreadNotFound(t *testing.T) {
	svc := NewService(newMemRepo(), llm.NewMockProvider(), time.Second)
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/chat/threads/nope", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
