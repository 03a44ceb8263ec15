package model

// Enrollment 选课记录表 — 对应 enrollments
// 唯一性 (student_id, module_code, intake, year)：cohort 范围的边界定义
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_cohort" json:"student_id"`
	ModuleCode   string `gorm:"type:varchar(20);not null;uniqueIndex:uq_enrollments_cohort" json:"module_code"`
	Intake       string `gorm:"type:varchar(10);not null;uniqueIndex:uq_enrollments_cohort" json:"intake"`
	Year         int    `gorm:"not null;uniqueIndex:uq_enrollments_cohort"     json:"year"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
