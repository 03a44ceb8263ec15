package dto

import "time"

// ModuleResponse 模块列表项
type ModuleResponse struct {
	ModuleCode string `json:"module_code"`
	ModuleName string `json:"module_name"`
}

// SessionResponse 会议场次列表项
type SessionResponse struct {
	SessionID       string     `json:"session_id"`
	ModuleCode      string     `json:"module_code"`
	Intake          string     `json:"intake"`
	Year            int        `json:"year"`
	MeetingTitle    *string    `json:"meeting_title,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes"`
}
