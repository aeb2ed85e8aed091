package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

var (
	ErrEmptyMessage = errors.New("message cannot be empty")
	ErrBusy         = errors.New("a reply is already pending for this thread")
)

const (
	titleLength = 60

	temperature = 0.7
	topP        = 0.9
)

const systemPrompt = `You are StudyBuddy, a friendly AI study assistant for students.
Explain concepts clearly, suggest practical study techniques and keep answers focused on the student's question.`

const outlinePrompt = `Create a detailed study plan for the following:
Subject: %s
Duration: %s
Learning Goals: %s

Please provide a structured plan including:
1. Daily/weekly schedule
2. Key topics to cover
3. Recommended resources
4. Practice exercises
5. Milestones and progress tracking`

type outlineInput struct {
	Subject  string `json:"subject" validate:"notblank"`
	Duration string `json:"duration" validate:"notblank"`
	Goals    string `json:"goals" validate:"notblank"`
}

type Service struct {
	repo     Repository
	provider llm.Provider
	timeout  time.Duration

	mu       sync.Mutex
	inflight map[string]*Pending
}

func NewService(repo Repository, provider llm.Provider, timeout time.Duration) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		timeout:  timeout,
		inflight: make(map[string]*Pending),
	}
}

// Send appends the user's message to a thread (creating the thread when
// threadID is empty) and asks the provider for a reply. When the call fails
// the stored history keeps the user message only and the error is an
// *llm.RemoteError.
func (s *Service) Send(ctx context.Context, userID int64, threadID, content string) (*models.SendMessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var history []models.ChatMessage
	if threadID == "" {
		t, err := s.repo.CreateThread(ctx, userID, threadTitle(content))
		if err != nil {
			return nil, err
		}
		threadID = t.ID
	} else {
		t, err := s.repo.GetThread(ctx, userID, threadID)
		if err != nil {
			return nil, err
		}
		history = t.Messages
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    toLLMMessages(history, content),
		Temperature: temperature,
		TopP:        topP,
	}
	pending, err := s.begin(threadID, req)
	if err != nil {
		return nil, err
	}
	defer s.finish(threadID)

	userMsg, err := s.repo.AppendMessage(ctx, threadID, string(llm.RoleUser), content)
	if err != nil {
		pending.Cancel()
		return nil, err
	}

	resp, err := pending.Wait(ctx)
	if err != nil {
		pending.Cancel()
		log.Printf("WARN: [chat] thread %s: generate failed: %v", threadID, err)
		return nil, llm.Classify(err, llm.ReasonGenerate)
	}

	reply, err := s.repo.AppendMessage(ctx, threadID, string(llm.RoleAssistant), resp.Content)
	if err != nil {
		return nil, err
	}

	return &models.SendMessageResponse{
		ThreadID:    threadID,
		UserMessage: *userMsg,
		Reply:       *reply,
	}, nil
}

// begin registers the thread's in-flight call. A thread has at most one.
func (s *Service) begin(threadID string, req llm.Request) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[threadID]; busy {
		return nil, ErrBusy
	}
	// Detached from the request so Cancel and the timeout are the only ways
	// the call ends early.
	p := Submit(context.Background(), s.provider, req, s.timeout)
	s.inflight[threadID] = p
	return p, nil
}

func (s *Service) finish(threadID string) {
	s.mu.Lock()
	delete(s.inflight, threadID)
	s.mu.Unlock()
}

// Cancel abandons the pending reply on a thread the user owns.
func (s *Service) Cancel(ctx context.Context, userID int64, threadID string) (bool, error) {
	if _, err := s.repo.GetThread(ctx, userID, threadID); err != nil {
		return false, err
	}
	s.mu.Lock()
	p, ok := s.inflight[threadID]
	s.mu.Unlock()
	if ok {
		p.Cancel()
	}
	return ok, nil
}

func (s *Service) Threads(ctx context.Context, userID int64, limit int) ([]models.ChatThread, error) {
	return s.repo.ListThreads(ctx, userID, limit)
}

func (s *Service) Thread(ctx context.Context, userID int64, threadID string) (*models.ChatThread, error) {
	return s.repo.GetThread(ctx, userID, threadID)
}

func (s *Service) DeleteThread(ctx context.Context, userID int64, threadID string) error {
	if err := s.repo.DeleteThread(ctx, userID, threadID); err != nil {
		return err
	}
	s.mu.Lock()
	p, ok := s.inflight[threadID]
	s.mu.Unlock()
	if ok {
		p.Cancel()
	}
	return nil
}

// Outline asks the provider for a free-form study plan outline.
func (s *Service) Outline(ctx context.Context, req models.OutlineRequest) (*models.OutlineResponse, error) {
	in := outlineInput{
		Subject:  strings.TrimSpace(req.Subject),
		Duration: strings.TrimSpace(req.Duration),
		Goals:    strings.TrimSpace(req.Goals),
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	pending := Submit(ctx, s.provider, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(outlinePrompt, in.Subject, in.Duration, in.Goals)}},
		Temperature: temperature,
		TopP:        topP,
	}, s.timeout)

	resp, err := pending.Wait(ctx)
	if err != nil {
		pending.Cancel()
		return nil, llm.Classify(err, llm.ReasonGenerate)
	}
	return &models.OutlineResponse{Subject: in.Subject, Outline: resp.Content, Model: resp.Model}, nil
}

func toLLMMessages(history []models.ChatMessage, next string) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == string(llm.RoleAssistant) {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return append(out, llm.Message{Role: llm.RoleUser, Content: next})
}

func threadTitle(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	r := []rune(content)
	if len(r) <= titleLength {
		return content
	}
	return strings.TrimSpace(string(r[:titleLength])) + "..."
}
