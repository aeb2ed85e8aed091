package models

import "time"

// ── Quiz Catalog ─────────────────────────────────────────

type QuizCard struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject"`
	QuestionCount int    `json:"question_count"`
	TimeEstimate  string `json:"time_estimate"`
	Difficulty    string `json:"difficulty"`
	Points        int    `json:"points"`
	PoolSize      int    `json:"pool_size"`
}

// ── Quiz Session ─────────────────────────────────────────

type QuizQuestionView struct {
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type QuizAnswerView struct {
	Selected      int    `json:"selected"`
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correct_option"`
	Explanation   string `json:"explanation"`
}

type ExhaustionChoiceView struct {
	Option string `json:"option"`
	Label  string `json:"label"`
}

type QuizExhaustionView struct {
	Prompt      string                 `json:"prompt"`
	Explanation string                 `json:"explanation"`
	Choices     []ExhaustionChoiceView `json:"choices"`
}

type QuizResultView struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	PointsEarned   int    `json:"points_earned"`
	TimeTaken      string `json:"time_taken"`
	TotalPoints    int64  `json:"total_points"`
}

type QuizSessionResponse struct {
	SessionID      string              `json:"session_id"`
	QuizID         int                 `json:"quiz_id"`
	Topic          string              `json:"topic"`
	Difficulty     string              `json:"difficulty"`
	State          string              `json:"state"`
	Score          int                 `json:"score"`
	AnsweredCount  int                 `json:"answered_count"`
	TotalQuestions int                 `json:"total_questions"`
	Question       *QuizQuestionView   `json:"question,omitempty"`
	Answer         *QuizAnswerView     `json:"answer,omitempty"`
	Exhaustion     *QuizExhaustionView `json:"exhaustion,omitempty"`
	Result         *QuizResultView     `json:"result,omitempty"`
}

type SubmitAnswerRequest struct {
	Option *int `json:"option"`
}

type ResolveExhaustionRequest struct {
	Option string `json:"option"`
}

// ── Quiz History ─────────────────────────────────────────

type QuizAttempt struct {
	ID              int64     `json:"id"`
	QuizID          int       `json:"quiz_id"`
	Topic           string    `json:"topic"`
	Difficulty      string    `json:"difficulty"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	PointsEarned    int       `json:"points_earned"`
	DurationSeconds int       `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}
