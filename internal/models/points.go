package models

import (
	"encoding/json"
	"time"
)

type PointsSummary struct {
	UserID           int64 `json:"user_id"`
	TotalPoints      int64 `json:"total_points"`
	QuizzesCompleted int   `json:"quizzes_completed"`
	Rank             int   `json:"rank"`
}

type PointEvent struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	Amount    int             `json:"amount"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	UserID           int64  `json:"user_id"`
	DisplayName      string `json:"display_name"`
	TotalPoints      int64  `json:"total_points"`
	QuizzesCompleted int    `json:"quizzes_completed"`
	IsCurrentUser    bool   `json:"is_current_user"`
}
