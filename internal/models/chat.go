package models

import "time"

type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatThread struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	MessageCount int           `json:"message_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Messages     []ChatMessage `json:"messages,omitempty"`
}

type SendMessageRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Content  string `json:"content"`
}

type SendMessageResponse struct {
	ThreadID    string      `json:"thread_id"`
	UserMessage ChatMessage `json:"user_message"`
	Reply       ChatMessage `json:"reply"`
}

type OutlineRequest struct {
	Subject  string `json:"subject"`
	Duration string `json:"duration"`
	Goals    string `json:"goals"`
}

type OutlineResponse struct {
	Subject string `json:"subject"`
	Outline string `json:"outline"`
	Model   string `json:"model"`
}
