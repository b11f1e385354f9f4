package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
)

// bearerToken 读取 Authorization: Bearer <token>
func bearerToken(c *gin.Context) string {
	s := c.GetHeader("Authorization")
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return strings.TrimSpace(s)
}

// UserAuthTokenWithConfig parses the bearer access token. The anon key, or no
// token at all, leaves the request anonymous; required rejects anonymous requests.
// UserAuthTokenWithConfig 解析访问 Token；匿名 Key 或无 Token 时为匿名请求，required 为 true 时拒绝匿名请求
func UserAuthTokenWithConfig(tm app.TokenManager, anonKey string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := bearerToken(c)
		if token == "" || token == anonKey {
			if required {
				response.ToResponse(code.ErrorNotUserAuthToken.Clone())
				c.Abort()
				return
			}
			c.Next()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken.Clone().WithDetails(err.Error()))
			c.Abort()
			return
		}
		app.SetUserEntity(c, user)

		c.Next()
	}
}
