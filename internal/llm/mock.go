package llm

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is a canned reply for MockProvider.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider returns canned replies in FIFO order and records every
// request. With an empty queue it echoes the last user message.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var next *MockResponse
	if len(m.responses) > 0 {
		next = &m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if next == nil {
		return &Response{Content: echo(req), Model: "mock"}, nil
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Model: "mock"}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func echo(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			return "You said: " + req.Messages[i].Content
		}
	}
	return "Hello! How can I help you study today?"
}

// ErrMockUnavailable is a ready-made failure for tests.
var ErrMockUnavailable = errors.New("mock provider unavailable")
