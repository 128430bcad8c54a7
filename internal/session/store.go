// Package session 管理后台的共享口令校验与内存会话表。
// 会话只存在于进程内存中：进程重启后所有已发放的 token 天然失效。
package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ErrInvalidCredentials 登录失败的统一错误。
// 不区分"口令错误"的具体程度，避免给猜测者任何信息。
var ErrInvalidCredentials = errors.New("error.invalid_credentials")

type Store struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> 过期时刻

	secret    []byte
	duration  time.Duration
	failDelay time.Duration
}

// Default 全局实例，serve 启动时初始化
var Default *Store

func Init(secret string) {
	hours := viper.GetInt("auth.session_hours")
	if hours <= 0 {
		hours = 24
	}
	delayMs := viper.GetInt("auth.login_delay_ms")
	if delayMs <= 0 {
		delayMs = 500
	}

	Default = NewStore(secret, time.Duration(hours)*time.Hour, time.Duration(delayMs)*time.Millisecond)
}

func NewStore(secret string, duration, failDelay time.Duration) *Store {
	return &Store{
		sessions:  make(map[string]time.Time),
		secret:    []byte(secret),
		duration:  duration,
		failDelay: failDelay,
	}
}

// Login 校验口令。比较使用 subtle.ConstantTimeCompare，
// 失败时固定 sleep 再返回，无论猜得多接近耗时都一样。
func (s *Store) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), s.secret) != 1 {
		time.Sleep(s.failDelay)
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	// 借登录的机会顺手清理已过期的会话
	for t, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, t)
		}
	}
	s.sessions[token] = now.Add(s.duration)
	s.mu.Unlock()

	return token, nil
}

// Validate 校验 token 是否有效。已过期的条目在查到时顺手删除。
// token 对比逐个做常量时间比较；会话表最多一两条，代价可以忽略。
func (s *Store) Validate(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for t, expiry := range s.sessions {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t)) != 1 {
			continue
		}
		if now.After(expiry) {
			delete(s.sessions, t)
			return false
		}
		return true
	}
	return false
}

// Logout 注销指定会话
func (s *Store) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Duration 会话有效期（用于设置 cookie max-age）
func (s *Store) Duration() time.Duration {
	return s.duration
}
