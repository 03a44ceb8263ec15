package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// ModuleRepository 课程模块数据访问接口
type ModuleRepository interface {
	// EnsureExists 不存在则创建，已存在不做任何更新
	EnsureExists(ctx context.Context, code, name string) error
	GetByCode(ctx context.Context, code string) (*model.Module, error)
	List(ctx context.Context) ([]model.Module, error)
}

// ProgramRepository 专业数据访问接口
type ProgramRepository interface {
	// EnsureExists 不存在则创建，返回带主键的记录
	EnsureExists(ctx context.Context, name string) (*model.Program, error)
	// LinkModule 建立专业与模块关联，重复关联静默跳过
	LinkModule(ctx context.Context, programID, moduleID string) error
	List(ctx context.Context) ([]model.Program, error)
}

// ── Module Repository 实现 ──

type moduleRepo struct {
	db *gorm.DB
}

func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) EnsureExists(ctx context.Context, code, name string) error {
	m := model.Module{ModuleCode: code, ModuleName: name}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "module_code"}},
			DoNothing: true,
		}).
		Create(&m).Error
}

func (r *moduleRepo) GetByCode(ctx context.Context, code string) (*model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).
		Where("module_code = ?", code).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) List(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Order("module_code ASC").
		Find(&modules).Error
	return modules, err
}

// ── Program Repository 实现 ──

type programRepo struct {
	db *gorm.DB
}

func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) EnsureExists(ctx context.Context, name string) (*model.Program, error) {
	p := model.Program{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	// DO NOTHING 冲突时不返回已有行，主键需回查
	if p.ProgramID == "" {
		err = r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
		if err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *programRepo) LinkModule(ctx context.Context, programID, moduleID string) error {
	link := model.ProgramModule{ProgramID: programID, ModuleID: moduleID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "program_id"}, {Name: "module_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&programs).Error
	return programs, err
}
