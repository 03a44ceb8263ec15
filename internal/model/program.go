package model

// Program 专业/项目表 — 对应 programs
type Program struct {
	ProgramID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name      string `gorm:"type:varchar(255);not null;uniqueIndex:uq_programs_name" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// ProgramModule 专业与模块多对多关联表 — 对应 program_modules
type ProgramModule struct {
	ProgramModuleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_module_id"`
	ProgramID       string `gorm:"type:uuid;not null;uniqueIndex:uq_program_modules" json:"program_id"`
	ModuleID        string `gorm:"type:uuid;not null;uniqueIndex:uq_program_modules" json:"module_id"`
	BaseModel
}

// TableName 指定表名
func (ProgramModule) TableName() string { return "program_modules" }
