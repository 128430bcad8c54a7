package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkly-go/internal/handler"
	"linkly-go/internal/session"
)

func protectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	session.Default = session.NewStore("hunter2", time.Hour, time.Millisecond)

	r := gin.New()
	r.Use(GlobalErrorMiddleware())
	r.GET("/api/links", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "protected")
	})
	return r
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := protectedRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/links", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "protected")
}

func TestAuthMiddlewareRejectsBogusToken(t *testing.T) {
	r := protectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: "bogus"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsCookieSession(t *testing.T) {
	r := protectedRouter(t)
	token, err := session.Default.Login("hunter2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "protected", w.Body.String())
}

func TestAuthMiddlewareAcceptsBearerSession(t *testing.T) {
	r := protectedRouter(t)
	token, err := session.Default.Login("hunter2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
