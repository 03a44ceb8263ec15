package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AvinashFdo/attendance-dashboard/internal/repository"
)

// ── 测试辅助 ──

func setupTestRosterImport() (RosterImportService, *mockModuleRepo, *mockProgramRepo, *mockStudentRepo, *mockEnrollmentRepo) {
	moduleRepo := newMockModuleRepo()
	programRepo := newMockProgramRepo()
	studentRepo := newMockStudentRepo()
	enrollmentRepo := newMockEnrollmentRepo(studentRepo)
	repo := &repository.Repository{
		Module:     moduleRepo,
		Program:    programRepo,
		Student:    studentRepo,
		Enrollment: enrollmentRepo,
		Session:    newMockSessionRepo(),
		Attendance: newMockAttendanceRepo(studentRepo, newMockSessionRepo()),
	}
	svc := NewRosterImportService(repo, zap.NewNop())
	return svc, moduleRepo, programRepo, studentRepo, enrollmentRepo
}

// buildModulesXLSX 构造模块主数据测试文件
func buildModulesXLSX(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cellName, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("写入测试单元格失败: %v", err)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成测试 Excel 失败: %v", err)
	}
	return buf
}

// ── ImportModules 测试 ──

func TestImportModules_Success(t *testing.T) {
	svc, moduleRepo, programRepo, _, _ := setupTestRosterImport()

	buf := buildModulesXLSX(t, [][]string{
		{"Module Code", "Module Name", "Programme"},
		{"MN5070NU", "Operations Management", "MBA"},
		{"CS4001NU", "Distributed Systems", "MSc Computing"},
		{"", "孤行无代码", ""},
	})

	resp, err := svc.ImportModules(context.Background(), buf)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if resp.RowsRead != 3 || resp.RowsSkipped != 1 || resp.ModulesUpserted != 2 {
		t.Errorf("计数错误: %+v", resp)
	}
	if resp.ProgramsLinked != 2 {
		t.Errorf("专业关联计数错误: %d", resp.ProgramsLinked)
	}

	mod, err := moduleRepo.GetByCode(context.Background(), "MN5070NU")
	if err != nil {
		t.Fatal("模块未落库")
	}
	if mod.ModuleName != "Operations Management" {
		t.Errorf("模块名称错误: %q", mod.ModuleName)
	}
	if len(programRepo.programs) != 2 {
		t.Errorf("期望 2 个专业，实际 %d", len(programRepo.programs))
	}
}

func TestImportModules_BadHeader(t *testing.T) {
	svc, _, _, _, _ := setupTestRosterImport()

	buf := buildModulesXLSX(t, [][]string{
		{"Code", "Title"},
		{"MN5070NU", "Operations Management"},
	})

	_, err := svc.ImportModules(context.Background(), buf)
	if !errors.Is(err, ErrRosterBadHeader) {
		t.Errorf("期望 ErrRosterBadHeader，实际: %v", err)
	}
}

func TestImportModules_NoData(t *testing.T) {
	svc, _, _, _, _ := setupTestRosterImport()

	buf := buildModulesXLSX(t, [][]string{
		{"Module Code", "Module Name"},
	})

	_, err := svc.ImportModules(context.Background(), buf)
	if !errors.Is(err, ErrRosterNoData) {
		t.Errorf("期望 ErrRosterNoData，实际: %v", err)
	}
}

func TestImportModules_NotAnExcelFile(t *testing.T) {
	svc, _, _, _, _ := setupTestRosterImport()

	_, err := svc.ImportModules(context.Background(), strings.NewReader("not an xlsx"))
	if !errors.Is(err, ErrRosterUnreadableXLS) {
		t.Errorf("期望 ErrRosterUnreadableXLS，实际: %v", err)
	}
}

// ── ImportEnrollments 测试 ──

const sampleEnrollmentCSV = "Email,Name,Module Code,Intake,Year\n" +
	"alice@stu.nexteducationgroup.com,Alice Perera,MN5070NU,Spring,2025\n" +
	"BOB@stu.nexteducationgroup.com,Bob Silva,mn5070nu,fall,2025\n" +
	",Missing Email,MN5070NU,Spring,2025\n" +
	"carol@stu.nexteducationgroup.com,Carol,MN5070NU,Winter,2025\n"

func TestImportEnrollments_Success(t *testing.T) {
	svc, _, _, studentRepo, enrollmentRepo := setupTestRosterImport()

	resp, err := svc.ImportEnrollments(context.Background(), strings.NewReader(sampleEnrollmentCSV))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	// 无邮箱行与非法 intake 行跳过
	if resp.RowsRead != 4 || resp.RowsSkipped != 2 {
		t.Errorf("行计数错误: %+v", resp)
	}
	if resp.StudentsUpserted != 2 || resp.EnrollmentsUpserted != 2 {
		t.Errorf("upsert 计数错误: %+v", resp)
	}

	// 邮箱小写规范化
	if _, err := studentRepo.GetByEmail(context.Background(), "bob@stu.nexteducationgroup.com"); err != nil {
		t.Error("大写邮箱应小写规范化后落库")
	}

	// fall → Autumn
	autumn, err := enrollmentRepo.ListByCohort(context.Background(), "MN5070NU", "Autumn", 2025)
	if err != nil || len(autumn) != 1 {
		t.Errorf("fall 行应落入 Autumn cohort，实际 %d 条", len(autumn))
	}
}

func TestImportEnrollments_Idempotent(t *testing.T) {
	svc, _, _, studentRepo, enrollmentRepo := setupTestRosterImport()

	for i := 0; i < 2; i++ {
		if _, err := svc.ImportEnrollments(context.Background(), strings.NewReader(sampleEnrollmentCSV)); err != nil {
			t.Fatalf("第 %d 次导入失败: %v", i+1, err)
		}
	}

	if len(studentRepo.students) != 2 {
		t.Errorf("期望 2 个学生，实际 %d", len(studentRepo.students))
	}
	if len(enrollmentRepo.enrollments) != 2 {
		t.Errorf("期望 2 条选课记录，实际 %d", len(enrollmentRepo.enrollments))
	}
}

func TestImportEnrollments_BadHeader(t *testing.T) {
	svc, _, _, _, _ := setupTestRosterImport()

	csv := "Mail,Person\nalice@x.com,Alice\n"
	_, err := svc.ImportEnrollments(context.Background(), strings.NewReader(csv))
	if !errors.Is(err, ErrRosterBadHeader) {
		t.Errorf("期望 ErrRosterBadHeader，实际: %v", err)
	}
}

func TestImportEnrollments_BOMHeader(t *testing.T) {
	svc, _, _, _, _ := setupTestRosterImport()

	csv := "\xEF\xBB\xBFEmail,Name,Module Code,Intake,Year\n" +
		"alice@stu.nexteducationgroup.com,Alice,MN5070NU,Spring,2025\n"
	resp, err := svc.ImportEnrollments(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("带 BOM 的 CSV 应可解析: %v", err)
	}
	if resp.EnrollmentsUpserted != 1 {
		t.Errorf("upsert 计数错误: %+v", resp)
	}
}
