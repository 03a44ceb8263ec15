package dto

import "time"

// CohortSummaryResponse cohort 出勤摘要
type CohortSummaryResponse struct {
	ModuleCode   string                     `json:"module_code"`
	Intake       string                     `json:"intake"`
	Year         int                        `json:"year"`
	SessionCount int                        `json:"session_count"`
	Students     []StudentAttendanceSummary `json:"students"`
}

// StudentAttendanceSummary 单个学生在 cohort 内的出勤统计
// 出勤率只统计 eligible 行；风险分层 low ≥75%、medium ≥50%、high 其余
type StudentAttendanceSummary struct {
	Email             string  `json:"email"`
	FullName          *string `json:"full_name,omitempty"`
	SessionsAttended  int     `json:"sessions_attended"`
	SessionsTotal     int     `json:"sessions_total"`
	AttendancePercent float64 `json:"attendance_percent"`
	RiskBand          string  `json:"risk_band"` // low | medium | high
}

// StudentHistoryResponse 单个学生的出勤历史
type StudentHistoryResponse struct {
	Email    string                     `json:"email"`
	FullName *string                    `json:"full_name,omitempty"`
	Records  []AttendanceRecordResponse `json:"records"`
}

// AttendanceRecordResponse 出勤历史单条记录
type AttendanceRecordResponse struct {
	SessionID    string     `json:"session_id"`
	ModuleCode   string     `json:"module_code"`
	Intake       string     `json:"intake"`
	Year         int        `json:"year"`
	MeetingTitle *string    `json:"meeting_title,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	Minutes      *int       `json:"minutes"`
	Role         *string    `json:"role,omitempty"`
	IsEligible   bool       `json:"is_eligible"`
}
