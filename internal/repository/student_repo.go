package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	// Upsert 按 email 唯一键写入；冲突时刷新姓名（last-write-wins），
	// 返回后 student.StudentID 为库中既有主键
	Upsert(ctx context.Context, student *model.Student) error
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
}

// ── Student Repository 实现 ──

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Upsert(ctx context.Context, student *model.Student) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "updated_at"}),
		}).
		Create(student).Error
	if err != nil {
		return err
	}
	// DO UPDATE 路径下 RETURNING 已回填既有主键；保险起见兜底回查
	if student.StudentID == "" {
		return r.db.WithContext(ctx).
			Where("email = ?", student.Email).
			First(student).Error
	}
	return nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
