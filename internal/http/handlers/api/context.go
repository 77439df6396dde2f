package api

import (
	"github.com/calcledger/internal/constants"
	"github.com/calcledger/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getSubjectID 从请求上下文取出经过校验的 subject id。
// 中间件缺位属于程序错误，按 401 处理。
func getSubjectID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeySubjectID)
	if !exists {
		response.Unauthorized(c, "Unauthorized")
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		response.Unauthorized(c, "Unauthorized")
		return "", false
	}
	return id, true
}

func getSubjectEmail(c *gin.Context) string {
	value, exists := c.Get(constants.ContextKeyEmail)
	if !exists {
		return ""
	}
	email, _ := value.(string)
	return email
}
