package skills

import (
	"context"
	"strings"
	"time"

	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

const DateLayout = "2006-01-02"

type skillInput struct {
	Name     string `json:"name" validate:"notblank"`
	Category string `json:"category" validate:"notblank"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Skills(ctx context.Context, userID int64) ([]models.Skill, error) {
	list, err := s.repo.ListSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range list {
		decorate(&list[i], now)
	}
	return list, nil
}

// AddSkill creates a skill at the starting progress.
func (s *Service) AddSkill(ctx context.Context, userID int64, req models.CreateSkillRequest) (*models.Skill, error) {
	in := skillInput{Name: strings.TrimSpace(req.Name), Category: strings.TrimSpace(req.Category)}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	category, ok := NormalizeCategory(in.Category)
	if !ok {
		return nil, validation.Errors{{Field: "category", Message: "Invalid skill category"}}
	}

	sk, err := s.repo.CreateSkill(ctx, userID, in.Name, category, StartingProgress)
	if err != nil {
		return nil, err
	}
	decorate(sk, s.now())
	return sk, nil
}

// LogActivity records an activity and boosts the first matching skill.
func (s *Service) LogActivity(ctx context.Context, userID int64, req models.LogActivityRequest) (*models.LogActivityResponse, error) {
	in := skillInput{Name: strings.TrimSpace(req.Name), Category: strings.TrimSpace(req.Category)}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	category, ok := NormalizeCategory(in.Category)
	if !ok {
		return nil, validation.Errors{{Field: "category", Message: "Invalid skill category"}}
	}

	minutes := req.DurationMinutes
	if req.Duration != "" {
		m, err := ParseDuration(req.Duration)
		if err != nil {
			return nil, validation.Errors{{Field: "duration", Message: "Invalid duration"}}
		}
		minutes = m
	}
	if minutes <= 0 {
		return nil, validation.Errors{{Field: "duration", Message: "Duration is required"}}
	}

	now := s.now()
	performed := now
	if req.Date != "" {
		d, err := time.ParseInLocation(DateLayout, req.Date, now.Location())
		if err != nil {
			return nil, validation.Errors{{Field: "date", Message: "Date must use the YYYY-MM-DD format"}}
		}
		performed = d
	}

	list, err := s.repo.ListSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	var skillID int64
	if i := MatchSkill(list, in.Name, category); i >= 0 {
		skillID = list[i].ID
	}

	act, updated, err := s.repo.RecordActivity(ctx, userID, models.SkillActivity{
		Name:            in.Name,
		Category:        category,
		DurationMinutes: minutes,
		Notes:           strings.TrimSpace(req.Notes),
		PerformedAt:     performed,
	}, skillID)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		decorate(updated, now)
	}
	return &models.LogActivityResponse{Activity: *act, UpdatedSkill: updated}, nil
}

func (s *Service) Activities(ctx context.Context, userID int64, limit int) ([]models.SkillActivity, error) {
	return s.repo.ListActivities(ctx, userID, limit)
}

// Summary builds the radar and weekly charts.
func (s *Service) Summary(ctx context.Context, userID int64) (*models.SkillSummary, error) {
	list, err := s.repo.ListSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	recent, err := s.repo.ActivitiesSince(ctx, userID, dayStart(now).AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.SkillSummary{
		Radar:           Radar(list),
		Weekly:          WeeklyActivity(recent, now),
		TotalSkills:     len(list),
		TotalActivities: total,
	}, nil
}
