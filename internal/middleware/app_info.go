package middleware

import (
	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 在响应头中标记服务名称与版本
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	server := name + "/" + version
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Header("Server", server)

		c.Next()
	}
}
