package models

type PortionInput struct {
	Topic string  `json:"topic"`
	Hours float64 `json:"hours"`
}

type SubjectInput struct {
	Name     string         `json:"name"`
	Portions []PortionInput `json:"portions"`
}

type GeneratePlanRequest struct {
	ExamDate   string         `json:"exam_date"`
	DailyHours float64        `json:"daily_hours"`
	Subjects   []SubjectInput `json:"subjects"`
}
