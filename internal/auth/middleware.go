package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未ログインなら後続のハンドラーを実行せず 401 を返します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := m.authenticated(sessions.Default(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgPleaseLogIn})
			return
		}
		c.Set(ContextUserKey, username)
		c.Next()
	}
}

// CurrentUser は RequireLogin が設定したユーザー名を返します。
func CurrentUser(c *gin.Context) (string, bool) {
	username := c.GetString(ContextUserKey)
	return username, username != ""
}
