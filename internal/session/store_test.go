package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccessIssuesValidToken(t *testing.T) {
	s := NewStore("hunter2", time.Hour, 10*time.Millisecond)

	token, err := s.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, s.Validate(token))
}

func TestLoginFailureUniformWithFixedDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	s := NewStore("hunter2", time.Hour, delay)

	// 完全错误与只差一个字符的口令表现一致：同一个错误，耗时不低于固定延迟
	for _, password := range []string{"", "wrong", "hunter3", "hunter2 "} {
		start := time.Now()
		token, err := s.Login(password)
		elapsed := time.Since(start)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
		assert.GreaterOrEqual(t, elapsed, delay)
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	s := NewStore("hunter2", time.Hour, time.Millisecond)

	assert.False(t, s.Validate(""))
	assert.False(t, s.Validate("no-such-token"))
}

func TestValidateExpiredTokenRemoved(t *testing.T) {
	s := NewStore("hunter2", 10*time.Millisecond, time.Millisecond)

	token, err := s.Login("hunter2")
	require.NoError(t, err)
	require.True(t, s.Validate(token))

	time.Sleep(20 * time.Millisecond)
	assert.False(t, s.Validate(token))
	// 过期条目被惰性删除，再次校验仍然失败
	assert.False(t, s.Validate(token))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := NewStore("hunter2", time.Hour, time.Millisecond)

	token, err := s.Login("hunter2")
	require.NoError(t, err)

	s.Logout(token)
	assert.False(t, s.Validate(token))
}

func TestFreshStoreHasNoSessions(t *testing.T) {
	first := NewStore("hunter2", time.Hour, time.Millisecond)
	token, err := first.Login("hunter2")
	require.NoError(t, err)

	// 进程重启等价于换一个全新的 Store：旧 token 一律失效
	second := NewStore("hunter2", time.Hour, time.Millisecond)
	assert.False(t, second.Validate(token))
}

func TestLoginPrunesExpiredSessions(t *testing.T) {
	s := NewStore("hunter2", 10*time.Millisecond, time.Millisecond)

	stale, err := s.Login("hunter2")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = s.Login("hunter2")
	require.NoError(t, err)

	s.mu.Lock()
	_, exists := s.sessions[stale]
	s.mu.Unlock()
	assert.False(t, exists)
}
