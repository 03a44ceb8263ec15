package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// AttendanceRepository 出勤记录数据访问接口
type AttendanceRepository interface {
	// Upsert 按 (session_id, student_id) 唯一键写入；冲突时整行覆盖
	Upsert(ctx context.Context, attendance *model.Attendance) error
	ListBySession(ctx context.Context, sessionID string) ([]model.Attendance, error)
	// ListByCohort 联表 sessions 取 cohort 范围内全部出勤行
	ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error)
}

// ── Attendance Repository 实现 ──

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"raw_email", "join_time", "leave_time",
				"minutes", "role", "is_eligible", "updated_at",
			}),
		}).
		Create(attendance).Error
}

func (r *attendanceRepo) ListBySession(ctx context.Context, sessionID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("session_id = ?", sessionID).
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Student").
		Joins("JOIN sessions ON sessions.session_id = attendances.session_id").
		Where("sessions.module_code = ? AND sessions.intake = ? AND sessions.year = ?", moduleCode, intake, year).
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Where("student_id = ?", studentID).
		Find(&rows).Error
	return rows, err
}
