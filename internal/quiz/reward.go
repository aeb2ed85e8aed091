package quiz

import (
	"fmt"
	"math"
	"time"

	"github.com/studybuddy/backend/internal/questionbank"
)

// DifficultyMultiplier scales the base reward of a quiz.
func DifficultyMultiplier(d questionbank.Difficulty) float64 {
	switch d {
	case questionbank.Hard:
		return 1.5
	case questionbank.Medium:
		return 1.2
	default:
		return 1.0
	}
}

// PointsEarned is round(basePoints * score/total * multiplier).
func PointsEarned(basePoints, score, total int, d questionbank.Difficulty) int {
	if total <= 0 || basePoints <= 0 || score <= 0 {
		return 0
	}
	return int(math.Round(float64(basePoints) * float64(score) / float64(total) * DifficultyMultiplier(d)))
}

// FormatDuration renders elapsed quiz time as "3m 07s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

// ── Exhaustion screen ───────────────────────────────────

type ExhaustionOption string

const (
	OptionRetry         ExhaustionOption = "retry"
	OptionChooseAnother ExhaustionOption = "choose_another"
	OptionViewResults   ExhaustionOption = "view_results"
	OptionHome          ExhaustionOption = "home"
)

const (
	ExhaustedPrompt      = "All questions completed! Would you like to:"
	ExhaustedExplanation = "You've completed all available questions for this topic and difficulty level."
)

// ExhaustionChoice pairs an option with its on-screen label.
type ExhaustionChoice struct {
	Option ExhaustionOption `json:"option"`
	Label  string           `json:"label"`
}

var exhaustionChoices = []ExhaustionChoice{
	{OptionRetry, "Try Again"},
	{OptionChooseAnother, "Choose Another Quiz"},
	{OptionViewResults, "View Results"},
	{OptionHome, "Back to Home"},
}

func ExhaustionChoices() []ExhaustionChoice {
	out := make([]ExhaustionChoice, len(exhaustionChoices))
	copy(out, exhaustionChoices)
	return out
}
