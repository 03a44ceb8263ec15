package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/AvinashFdo/attendance-dashboard/internal/dto"
	"github.com/AvinashFdo/attendance-dashboard/internal/model"
	"github.com/AvinashFdo/attendance-dashboard/internal/repository"
)

// CatalogService 目录查询业务接口（模块列表 / cohort 会话列表）
type CatalogService interface {
	ListModules(ctx context.Context) ([]dto.ModuleResponse, error)
	ListCohortSessions(ctx context.Context, moduleCode, intake string, year int) ([]dto.SessionResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListModules(ctx context.Context) ([]dto.ModuleResponse, error) {
	modules, err := s.repo.Module.List(ctx)
	if err != nil {
		s.logger.Error("查询模块列表失败", zap.Error(err))
		return nil, err
	}
	resp := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		resp = append(resp, dto.ModuleResponse{
			ModuleCode: m.ModuleCode,
			ModuleName: m.ModuleName,
		})
	}
	return resp, nil
}

func (s *catalogService) ListCohortSessions(ctx context.Context, moduleCode, intake string, year int) ([]dto.SessionResponse, error) {
	moduleCode = normalizeModuleCode(moduleCode)
	intake, ok := NormalizeIntake(intake)
	if moduleCode == "" || !ok || year <= 0 {
		return nil, ErrDashboardBadCohort
	}

	sessions, err := s.repo.Session.ListByCohort(ctx, moduleCode, intake, year)
	if err != nil {
		s.logger.Error("查询 cohort 会话失败", zap.Error(err))
		return nil, err
	}
	resp := make([]dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, toSessionResponse(&sess))
	}
	return resp, nil
}

// toSessionResponse model → dto 映射
func toSessionResponse(s *model.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID:       s.SessionID,
		ModuleCode:      s.ModuleCode,
		Intake:          s.Intake,
		Year:            s.Year,
		MeetingTitle:    s.MeetingTitle,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
	}
}
