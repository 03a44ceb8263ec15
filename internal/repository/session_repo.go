package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// SessionRepository 会议场次数据访问接口
type SessionRepository interface {
	// Upsert 按 session_key 唯一键写入；冲突时覆盖元数据（最新上传为准），
	// 保留首次插入生成的 session_id，并回填到 session
	Upsert(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Session, error)
}

// ── Session Repository 实现 ──

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Upsert(ctx context.Context, session *model.Session) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"module_code", "intake", "year",
				"meeting_title", "start_time", "end_time", "duration_minutes",
				"updated_at",
			}),
		}).
		Create(session).Error
	if err != nil {
		return err
	}
	// DO UPDATE 路径下 RETURNING 已回填既有主键；保险起见兜底回查
	if session.SessionID == "" {
		return r.db.WithContext(ctx).
			Where("session_key = ?", session.SessionKey).
			First(session).Error
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ListByCohort(ctx context.Context, moduleCode, intake string, year int) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("module_code = ? AND intake = ? AND year = ?", moduleCode, intake, year).
		Order("start_time ASC NULLS LAST, created_at ASC").
		Find(&sessions).Error
	return sessions, err
}
