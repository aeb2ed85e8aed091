package studyplan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for exam dates.
const DateLayout = "2006-01-02"

const (
	MinDailyHours = 1
	MaxDailyHours = 16
)

type Portion struct {
	Topic string  `json:"topic"`
	Hours float64 `json:"hours"`
}

type Subject struct {
	Name     string    `json:"name"`
	Portions []Portion `json:"portions"`
}

func (s Subject) TotalHours() float64 {
	var total float64
	for _, p := range s.Portions {
		total += p.Hours
	}
	return total
}

// Plan is the saved study plan snapshot.
type Plan struct {
	ExamDate              string    `json:"exam_date"`
	DaysUntilExam         int       `json:"days_until_exam"`
	DailyHours            float64   `json:"daily_hours"`
	TotalHours            float64   `json:"total_hours"`
	HoursPerSubjectPerDay float64   `json:"hours_per_subject_per_day"`
	Subjects              []Subject `json:"subjects"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// ── Errors ──────────────────────────────────────────────

// ValidationError is a draft problem the user must fix before generating.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InfeasibleError means the draft is well-formed but cannot fit before the exam.
type InfeasibleError struct {
	Message            string
	DaysUntilExam      int
	RequiredDailyHours int
}

func (e *InfeasibleError) Error() string { return e.Message }

// ── Validation ──────────────────────────────────────────

// Validate checks a draft and reports the first failing rule.
func Validate(d Draft) error {
	if strings.TrimSpace(d.ExamDate) == "" {
		return &ValidationError{Message: "Please select an exam date"}
	}
	if _, err := ParseExamDate(d.ExamDate); err != nil {
		return &ValidationError{Message: "Exam date must use the YYYY-MM-DD format"}
	}
	if math.IsNaN(d.DailyHours) || d.DailyHours < MinDailyHours || d.DailyHours > MaxDailyHours {
		return &ValidationError{Message: "Please enter valid daily study hours (between 1 and 16)"}
	}
	if len(d.Subjects) == 0 {
		return &ValidationError{Message: "Please add at least one subject"}
	}
	for _, s := range d.Subjects {
		if strings.TrimSpace(s.Name) == "" {
			return &ValidationError{Message: "All subjects must have names"}
		}
	}
	var missing []string
	for _, s := range d.Subjects {
		if len(s.Portions) == 0 {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Please add portions for " + strings.Join(missing, ", ")}
	}
	for _, s := range d.Subjects {
		for _, p := range s.Portions {
			if strings.TrimSpace(p.Topic) == "" || !(p.Hours > 0) || math.IsInf(p.Hours, 1) {
				return &ValidationError{Message: invalidPortionMessage}
			}
		}
	}
	return nil
}

// ParseExamDate reads a calendar date as midnight UTC.
func ParseExamDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// ── Feasibility & Allocation ────────────────────────────

// TotalHours sums every portion of every subject.
func TotalHours(subjects []Subject) float64 {
	var total float64
	for _, s := range subjects {
		total += s.TotalHours()
	}
	return total
}

// DaysUntil counts whole or partial days from now until the exam.
func DaysUntil(examDate, now time.Time) int {
	return int(math.Ceil(examDate.Sub(now).Hours() / 24))
}

// ComputeFeasibility returns the days left before the exam, or an
// InfeasibleError when the exam has passed or the hours do not fit.
func ComputeFeasibility(subjects []Subject, examDate time.Time, dailyHours float64, now time.Time) (int, error) {
	days := DaysUntil(examDate, now)
	if days <= 0 {
		return days, &InfeasibleError{Message: "Exam date must be in the future", DaysUntilExam: days}
	}

	total := TotalHours(subjects)
	if float64(days)*dailyHours < total {
		required := int(math.Ceil(total / float64(days)))
		return days, &InfeasibleError{
			Message: fmt.Sprintf(
				"With %s hours per day, you won't be able to complete all subjects before the exam. You need at least %d hours per day.",
				formatHours(dailyHours), required,
			),
			DaysUntilExam:      days,
			RequiredDailyHours: required,
		}
	}
	return days, nil
}

// Allocate splits the daily hours evenly across subjects.
func Allocate(subjects []Subject, dailyHours float64) float64 {
	if len(subjects) == 0 {
		return 0
	}
	return dailyHours / float64(len(subjects))
}

// Generate validates a draft and builds the plan snapshot.
func Generate(d Draft, now time.Time) (*Plan, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	exam, _ := ParseExamDate(d.ExamDate)

	days, err := ComputeFeasibility(d.Subjects, exam, d.DailyHours, now)
	if err != nil {
		return nil, err
	}

	subjects := d.clone().Subjects
	return &Plan{
		ExamDate:              exam.Format(DateLayout),
		DaysUntilExam:         days,
		DailyHours:            d.DailyHours,
		TotalHours:            TotalHours(subjects),
		HoursPerSubjectPerDay: Allocate(subjects, d.DailyHours),
		Subjects:              subjects,
		GeneratedAt:           now.UTC(),
	}, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
