package middleware

import (
	"crypto/subtle"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
)

// APIKeyWithConfig 校验 apikey 请求头（或 apikey 查询参数），anonKey 为空时不校验
func APIKeyWithConfig(anonKey string) gin.HandlerFunc {
	return func(c *gin.Context) {

		if anonKey == "" {
			c.Next()
			return
		}

		var key string
		if s := c.GetHeader("apikey"); len(s) != 0 {
			key = s
		} else if s, exist := c.GetQuery("apikey"); exist {
			key = s
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(anonKey)) != 1 {
			response := app.NewResponse(c)
			response.ToResponse(code.ErrorInvalidAPIKey.Clone())
			c.Abort()
			return
		}
		c.Next()
	}
}
