package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// cohortParams 从 query 中取 cohort 三元组；year 解析失败返回 0 交由 service 层拒绝
func cohortParams(c *gin.Context) (moduleCode, intake string, year int) {
	moduleCode = c.Query("module_code")
	intake = c.Query("intake")
	year, _ = strconv.Atoi(c.Query("year"))
	return moduleCode, intake, year
}
