package models

import "time"

type Skill struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Progress       int        `json:"progress"`
	Level          string     `json:"level"`
	LastActivity   string     `json:"last_activity"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type SkillActivity struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	PerformedAt     time.Time `json:"performed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type LogActivityRequest struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Duration        string `json:"duration,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Date            string `json:"date"`
	Notes           string `json:"notes"`
}

type LogActivityResponse struct {
	Activity     SkillActivity `json:"activity"`
	UpdatedSkill *Skill        `json:"updated_skill,omitempty"`
}

type CategoryScore struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
	Skills   int     `json:"skills"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type SkillSummary struct {
	Radar           []CategoryScore `json:"radar"`
	Weekly          []DayCount      `json:"weekly"`
	TotalSkills     int             `json:"total_skills"`
	TotalActivities int             `json:"total_activities"`
}
