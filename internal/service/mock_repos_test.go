package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/AvinashFdo/attendance-dashboard/internal/model"
)

// ── Mock ModuleRepository ──

type mockModuleRepo struct {
	modules map[string]*model.Module
	seq     int
}

func newMockModuleRepo() *mockModuleRepo {
	return &mockModuleRepo{modules: make(map[string]*model.Module)}
}

func (m *mockModuleRepo) EnsureExists(_ context.Context, code, name string) error {
	if _, ok := m.modules[code]; ok {
		return nil
	}
	m.seq++
	m.modules[code] = &model.Module{
		ModuleID:   fmt.Sprintf("mod-%d", m.seq),
		ModuleCode: code,
		ModuleName: name,
	}
	return nil
}

func (m *mockModuleRepo) GetByCode(_ context.Context, code string) (*model.Module, error) {
	if mod, ok := m.modules[code]; ok {
		return mod, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) List(_ context.Context) ([]model.Module, error) {
	var result []model.Module
	for _, mod := range m.modules {
		result = append(result, *mod)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ModuleCode < result[j].ModuleCode })
	return result, nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
	links    map[string]bool
	seq      int
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{
		programs: make(map[string]*model.Program),
		links:    make(map[string]bool),
	}
}

func (m *mockProgramRepo) EnsureExists(_ context.Context, name string) (*model.Program, error) {
	if p, ok := m.programs[name]; ok {
		return p, nil
	}
	m.seq++
	p := &model.Program{ProgramID: fmt.Sprintf("prog-%d", m.seq), Name: name}
	m.programs[name] = p
	return p, nil
}

func (m *mockProgramRepo) LinkModule(_ context.Context, programID, moduleID string) error {
	m.links[programID+":"+moduleID] = true
	return nil
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	return result, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student // email → student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

// Upsert 模拟 email 唯一键：已存在时保留主键、刷新姓名并回填
func (m *mockStudentRepo) Upsert(_ context.Context, student *model.Student) error {
	if existing, ok := m.students[student.Email]; ok {
		if student.FullName != nil {
			existing.FullName = student.FullName
		}
		student.StudentID = existing.StudentID
		return nil
	}
	m.seq++
	student.StudentID = fmt.Sprintf("stu-%d", m.seq)
	clone := *student
	m.students[student.Email] = &clone
	return nil
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	if s, ok := m.students[email]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	students    *mockStudentRepo // 模拟 Preload("Student")
	seq         int
}

func newMockEnrollmentRepo(students *mockStudentRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		enrollments: make(map[string]*model.Enrollment),
		students:    students,
	}
}

// Upsert 模拟 (student_id, module_code, intake, year) 唯一键：重复静默跳过
func (m *mockEnrollmentRepo) Upsert(_ context.Context, e *model.Enrollment) error {
	key := fmt.Sprintf("%s:%s:%s:%d", e.StudentID, e.ModuleCode, e.Intake, e.Year)
	if _, ok := m.enrollments[key]; ok {
		return nil
	}
	m.seq++
	e.EnrollmentID = fmt.Sprintf("enr-%d", m.seq)
	clone := *e
	m.enrollments[key] = &clone
	return nil
}

func (m *mockEnrollmentRepo) ListByCohort(_ context.Context, moduleCode, intake string, year int) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.ModuleCode != moduleCode || e.Intake != intake || e.Year != year {
			continue
		}
		clone := *e
		if m.students != nil {
			for _, s := range m.students.students {
				if s.StudentID == e.StudentID {
					clone.Student = s
					break
				}
			}
		}
		result = append(result, clone)
	}
	return result, nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session // session_key → session
	seq      int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

// Upsert 模拟 session_key 唯一键：冲突时覆盖元数据、保留首次生成的主键
func (m *mockSessionRepo) Upsert(_ context.Context, s *model.Session) error {
	if existing, ok := m.sessions[s.SessionKey]; ok {
		s.SessionID = existing.SessionID
		clone := *s
		clone.CreatedAt = existing.CreatedAt
		m.sessions[s.SessionKey] = &clone
		return nil
	}
	m.seq++
	s.SessionID = fmt.Sprintf("sess-%d", m.seq)
	clone := *s
	m.sessions[s.SessionKey] = &clone
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	for _, s := range m.sessions {
		if s.SessionID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListByCohort(_ context.Context, moduleCode, intake string, year int) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if s.ModuleCode == moduleCode && s.Intake == intake && s.Year == year {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := result[i].StartTime, result[j].StartTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.Before(*tj)
		}
	})
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	attendances map[string]*model.Attendance // session_id:student_id → row
	students    *mockStudentRepo
	sessions    *mockSessionRepo
	seq         int
}

func newMockAttendanceRepo(students *mockStudentRepo, sessions *mockSessionRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		attendances: make(map[string]*model.Attendance),
		students:    students,
		sessions:    sessions,
	}
}

// Upsert 模拟 (session_id, student_id) 唯一键：冲突时整行覆盖
func (m *mockAttendanceRepo) Upsert(_ context.Context, a *model.Attendance) error {
	key := a.SessionID + ":" + a.StudentID
	if existing, ok := m.attendances[key]; ok {
		a.AttendanceID = existing.AttendanceID
	} else {
		m.seq++
		a.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	}
	clone := *a
	m.attendances[key] = &clone
	return nil
}

func (m *mockAttendanceRepo) ListBySession(_ context.Context, sessionID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.attendances {
		if a.SessionID == sessionID {
			result = append(result, m.withRelations(a))
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByCohort(_ context.Context, moduleCode, intake string, year int) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.attendances {
		sess, err := m.sessions.GetByID(context.Background(), a.SessionID)
		if err != nil {
			continue
		}
		if sess.ModuleCode == moduleCode && sess.Intake == intake && sess.Year == year {
			result = append(result, m.withRelations(a))
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.attendances {
		if a.StudentID == studentID {
			result = append(result, m.withRelations(a))
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) withRelations(a *model.Attendance) model.Attendance {
	clone := *a
	if m.students != nil {
		for _, s := range m.students.students {
			if s.StudentID == a.StudentID {
				clone.Student = s
				break
			}
		}
	}
	if m.sessions != nil {
		if sess, err := m.sessions.GetByID(context.Background(), a.SessionID); err == nil {
			clone.Session = sess
		}
	}
	return clone
}
