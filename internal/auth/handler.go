package auth

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// bindCredentials は JSON ボディを読み取ります。壊れたボディは未入力として扱います。
func bindCredentials(c *gin.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return credentialsRequest{}, false
	}
	return req, true
}

// Register は POST /register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		m.respondWithError(c, ValidationError(msgFieldsRequired))
		return
	}

	if err := m.service.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		m.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		m.respondWithError(c, ValidationError(msgFieldsRequired))
		return
	}

	username, err := m.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		m.respondWithError(c, err)
		return
	}

	if err := m.establish(sessions.Default(c), username); err != nil {
		m.respondWithError(c, InternalError(msgLoginFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"username": username,
	})
}

// Logout は POST /logout のハンドラーです。未ログインでも成功します。
func (m *Manager) Logout(c *gin.Context) {
	if err := m.destroy(sessions.Default(c)); err != nil {
		m.logger.Printf("failed to save cleared session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CheckAuth は GET /check-auth のハンドラーです。常に 200 を返します。
func (m *Manager) CheckAuth(c *gin.Context) {
	username, ok := m.authenticated(sessions.Default(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      username,
	})
}

// UserInfo は GET /user-info のハンドラーです。RequireLogin の後ろで使います。
func (m *Manager) UserInfo(c *gin.Context) {
	username, ok := CurrentUser(c)
	if !ok {
		m.respondWithError(c, AuthenticationError(msgPleaseLogIn))
		return
	}

	profile, err := m.service.Profile(c.Request.Context(), username)
	if err != nil {
		m.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// respondWithError はエラーを {"error": ...} 形式で返します。
// 内部エラーの原因はログにのみ出力します。
func (m *Manager) respondWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		m.logger.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), causeOf(err))
	}
	c.JSON(status, gin.H{"error": publicMessage(err)})
}

func causeOf(err error) error {
	var authErr *Error
	if errors.As(err, &authErr) && authErr.Err != nil {
		return authErr.Err
	}
	return err
}
