package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// EnrollmentRepository 选课记录数据访问接口
type EnrollmentRepository interface {
	// Upsert 按 (student_id, module_code, intake, year) 唯一键写入，重复选课静默跳过
	Upsert(ctx context.Context, enrollment *model.Enrollment) error
	ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Enrollment, error)
}

// ── Enrollment Repository 实现 ──

type enrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Upsert(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_id"}, {Name: "module_code"},
				{Name: "intake"}, {Name: "year"},
			},
			DoNothing: true,
		}).
		Create(enrollment).Error
}

func (r *enrollmentRepo) ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("module_code = ? AND intake = ? AND year = ?", moduleCode, intake, year).
		Find(&enrollments).Error
	return enrollments, err
}
