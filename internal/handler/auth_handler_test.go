package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkly-go/internal/handler"
	"linkly-go/internal/middleware"
	"linkly-go/internal/session"
)

func setupAuth(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	session.Default = session.NewStore("hunter2", time.Hour, time.Millisecond)

	r := gin.New()
	r.Use(middleware.GlobalErrorMiddleware())
	r.POST("/api/auth/login", handler.LoginHandler)
	r.POST("/api/auth/logout", handler.LogoutHandler)
	return r
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	r := setupAuth(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == handler.SessionCookieName {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.NotEmpty(t, found.Value)
	assert.True(t, found.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, found.SameSite)
	assert.True(t, session.Default.Validate(found.Value))
}

func TestLoginWrongPasswordUniform401(t *testing.T) {
	r := setupAuth(t)

	for _, body := range []string{`{"password":"wrong"}`, `{"password":"hunter2 "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		// 没有 localizer 时直接回落到消息 key，所有失败共用同一条
		assert.Contains(t, w.Body.String(), "error.unauthorized")
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r := setupAuth(t)

	token, err := session.Default.Login("hunter2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, session.Default.Validate(token))
}

func TestSessionTokenPrefersCookieThenBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", handler.SessionToken(c))

	c.Request.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", handler.SessionToken(c))

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, handler.SessionToken(c2))
}
