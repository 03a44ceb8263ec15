package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
	"github.com/AvinashFdo/attendance-dashboard/internal/repository"
)

// ── 测试辅助 ──

func setupTestExport() (ExportService, *mockSessionRepo, *mockStudentRepo, *mockAttendanceRepo) {
	studentRepo := newMockStudentRepo()
	sessionRepo := newMockSessionRepo()
	attendanceRepo := newMockAttendanceRepo(studentRepo, sessionRepo)
	repo := &repository.Repository{
		Module:     newMockModuleRepo(),
		Program:    newMockProgramRepo(),
		Student:    studentRepo,
		Enrollment: newMockEnrollmentRepo(studentRepo),
		Session:    sessionRepo,
		Attendance: attendanceRepo,
	}
	svc := NewExportService(repo, zap.NewNop())
	return svc, sessionRepo, studentRepo, attendanceRepo
}

// ── ExportCohortAttendance 测试 ──

func TestExportCohortAttendance_NoSessions(t *testing.T) {
	svc, _, _, _ := setupTestExport()

	_, _, err := svc.ExportCohortAttendance(context.Background(), "MN5070NU", "Spring", 2025)
	if !errors.Is(err, ErrExportNoSessions) {
		t.Errorf("期望 ErrExportNoSessions，实际: %v", err)
	}
}

func TestExportCohortAttendance_BadCohort(t *testing.T) {
	svc, _, _, _ := setupTestExport()

	_, _, err := svc.ExportCohortAttendance(context.Background(), "MN5070NU", "Winter", 2025)
	if !errors.Is(err, ErrDashboardBadCohort) {
		t.Errorf("期望 ErrDashboardBadCohort，实际: %v", err)
	}
}

func TestExportCohortAttendance_Success(t *testing.T) {
	svc, sessionRepo, studentRepo, attendanceRepo := setupTestExport()
	ctx := context.Background()

	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	title := "Operations Lecture 3"
	sess := &model.Session{
		SessionKey: "k1", ModuleCode: "MN5070NU", Intake: "Spring", Year: 2025,
		StartTime: &start, MeetingTitle: &title,
	}
	_ = sessionRepo.Upsert(ctx, sess)

	name := "Alice Perera"
	alice := &model.Student{Email: "alice@stu.nexteducationgroup.com", FullName: &name}
	_ = studentRepo.Upsert(ctx, alice)
	minutes := 103
	_ = attendanceRepo.Upsert(ctx, &model.Attendance{
		SessionID: sess.SessionID, StudentID: alice.StudentID,
		Minutes: &minutes, IsEligible: true,
	})

	buf, filename, err := svc.ExportCohortAttendance(ctx, "MN5070NU", "Spring", 2025)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应为 .xlsx: %q", filename)
	}

	// 回读校验导出内容
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容无法按 Excel 回读: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("出勤矩阵")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题行 + 表头行 + 1 个学生行
	if len(rows) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(rows))
	}
	if rows[2][0] != "alice@stu.nexteducationgroup.com" {
		t.Errorf("学生邮箱单元格错误: %q", rows[2][0])
	}
	if rows[2][2] != "103" {
		t.Errorf("分钟单元格错误: %q", rows[2][2])
	}
}
