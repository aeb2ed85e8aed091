package skills

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/studybuddy/backend/internal/models"
)

// Categories in display order.
var Categories = []string{"Academic", "Technical", "Soft Skills", "Language", "Creative"}

const (
	StartingProgress = 10
	ActivityBoost    = 5
	MaxProgress      = 100
)

// NormalizeCategory maps a display name or slug ("soft-skills") to its
// canonical category.
func NormalizeCategory(s string) (string, bool) {
	key := slug(s)
	for _, c := range Categories {
		if slug(c) == key {
			return c, true
		}
	}
	return "", false
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "-")
}

// ProgressLevel buckets a progress value: low < 30 <= medium < 70 <= high.
func ProgressLevel(progress int) string {
	switch {
	case progress < 30:
		return "low"
	case progress < 70:
		return "medium"
	default:
		return "high"
	}
}

var durationOptions = map[string]int{
	"15min": 15,
	"30min": 30,
	"1hr":   60,
	"2hrs":  120,
	"3hrs+": 180,
}

// ParseDuration accepts the activity form's options ("15min" … "3hrs+")
// and Go durations such as "45m".
func ParseDuration(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := durationOptions[s]; ok {
		return m, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < time.Minute {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return int(d / time.Minute), nil
}

// MatchSkill returns the index of the skill an activity counts towards: the
// first whose category equals the activity's, or whose name contains the
// activity name. -1 when none match.
func MatchSkill(list []models.Skill, name, category string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, s := range list {
		if s.Category == category {
			return i
		}
		if name != "" && strings.Contains(strings.ToLower(s.Name), name) {
			return i
		}
	}
	return -1
}

func Boost(progress int) int {
	if progress+ActivityBoost > MaxProgress {
		return MaxProgress
	}
	return progress + ActivityBoost
}

// Radar averages progress per category, with 0 for empty categories.
func Radar(list []models.Skill) []models.CategoryScore {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, s := range list {
		sums[s.Category] += s.Progress
		counts[s.Category]++
	}
	out := make([]models.CategoryScore, len(Categories))
	for i, c := range Categories {
		out[i] = models.CategoryScore{Category: c, Skills: counts[c]}
		if counts[c] > 0 {
			out[i].Average = math.Round(float64(sums[c])/float64(counts[c])*10) / 10
		}
	}
	return out
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// WeeklyActivity counts activities performed over the last seven calendar
// days (today included), by weekday from Monday to Sunday.
func WeeklyActivity(activities []models.SkillActivity, now time.Time) []models.DayCount {
	today := dayStart(now)
	from := today.AddDate(0, 0, -6)

	counts := map[time.Weekday]int{}
	for _, a := range activities {
		day := dayStart(a.PerformedAt.In(now.Location()))
		if day.Before(from) || day.After(today) {
			continue
		}
		counts[day.Weekday()]++
	}

	out := make([]models.DayCount, len(weekdays))
	for i, wd := range weekdays {
		out[i] = models.DayCount{Day: wd.String()[:3], Count: counts[wd]}
	}
	return out
}

// LastActivityLabel renders a skill's last activity relative to now.
func LastActivityLabel(at *time.Time, now time.Time) string {
	if at == nil {
		return "Just added"
	}
	days := int(math.Round(dayStart(now).Sub(dayStart(at.In(now.Location()))).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "Last week"
	default:
		return at.Format("Jan 2, 2006")
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// decorate fills the derived display fields.
func decorate(s *models.Skill, now time.Time) {
	s.Level = ProgressLevel(s.Progress)
	s.LastActivity = LastActivityLabel(s.LastActivityAt, now)
}
