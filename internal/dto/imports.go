package dto

// ImportAttendanceResponse 出勤导入结果
//
// 回显解析出的 cohort/模块标识，调用方据此确认实际写入的目标
// （跨 cohort 误传是已知故障模式，回显用于及早暴露）。
// Source 标记行来源解析路径；本管道恒为 "section2_only"，
// 表示 Section 3 的内容被有意忽略。
type ImportAttendanceResponse struct {
	ModuleCode              string `json:"module_code"`
	Intake                  string `json:"intake"`
	Year                    int    `json:"year"`
	SessionID               string `json:"session_id"`
	RowsRead                int    `json:"rows_read"`
	AttendanceUpserted      int    `json:"attendance_upserted"`
	EligibleCount           int    `json:"eligible_count"`
	DeclaredDurationMinutes *int   `json:"declared_duration_minutes"`
	Source                  string `json:"source"`
}

// ImportModulesResponse 模块主数据导入结果
type ImportModulesResponse struct {
	RowsRead        int `json:"rows_read"`
	RowsSkipped     int `json:"rows_skipped"`
	ModulesUpserted int `json:"modules_upserted"`
	ProgramsLinked  int `json:"programs_linked"`
}

// ImportEnrollmentsResponse 选课名单导入结果
type ImportEnrollmentsResponse struct {
	RowsRead            int `json:"rows_read"`
	RowsSkipped         int `json:"rows_skipped"`
	StudentsUpserted    int `json:"students_upserted"`
	EnrollmentsUpserted int `json:"enrollments_upserted"`
}
