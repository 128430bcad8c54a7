// Package geo 负责 IP -> 地理位置的查询与缓存。
// 同一 IP 的并发查询只会发出一次外部请求；失败结果按宽限期
// 负缓存，避免持续打一个已经故障的外部服务。
package geo

import (
	"context"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Location 单个 IP 的地理位置信息
type Location struct {
	Country string
	Region  string
	City    string
}

// entry 是一个"可等待"的结果槽：done 关闭前表示查询在途，
// 后到的请求直接挂在同一个槽上等结果，而不是再发一次外部调用。
type entry struct {
	done    chan struct{}
	loc     *Location // nil 表示不可用
	retryAt time.Time // 仅负缓存使用：过期后允许重查
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	fetch   fetchFunc
	failTTL time.Duration
}

// Default 全局实例，serve 启动时初始化
var Default *Cache

func Init() {
	endpoint := viper.GetString("geo.endpoint")
	if endpoint == "" {
		endpoint = "http://ip-api.com/json"
	}
	timeout := time.Duration(viper.GetInt("geo.timeout_seconds")) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	failTTL := time.Duration(viper.GetInt("geo.fail_ttl_minutes")) * time.Minute
	if failTTL <= 0 {
		failTTL = 10 * time.Minute
	}

	Default = NewCache(newClient(endpoint, timeout).fetch, failTTL)
}

// NewCache 构造缓存。fetch 可注入，测试时替换为假实现。
func NewCache(fetch fetchFunc, failTTL time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		fetch:   fetch,
		failTTL: failTTL,
	}
}

// Lookup 查询 ip 的地理位置。返回 nil 表示不可用：
// 内网地址、外部服务失败、或此前已知查不到。
func (c *Cache) Lookup(ctx context.Context, ip string) *Location {
	// 内网/保留地址永远不发给外部服务
	if IsPrivate(ip) {
		return nil
	}

	c.mu.Lock()
	if e, ok := c.entries[ip]; ok {
		select {
		case <-e.done:
			// 已有结果：成功结果终身有效，失败结果在宽限期内直接复用
			if e.loc != nil || time.Now().Before(e.retryAt) {
				c.mu.Unlock()
				return e.loc
			}
			// 负缓存过期，落到下面重新发起
		default:
			// 查询在途：等它的结果，不再发外部调用
			c.mu.Unlock()
			select {
			case <-e.done:
				return e.loc
			case <-ctx.Done():
				return nil
			}
		}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[ip] = e
	c.mu.Unlock()

	loc := c.fetch(ctx, ip)

	e.loc = loc
	if loc == nil {
		e.retryAt = time.Now().Add(c.failTTL)
	}
	close(e.done)

	return loc
}

// PruneExpired 清理已过宽限期的负缓存条目，由定时任务调用。
func (c *Cache) PruneExpired() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for ip, e := range c.entries {
		select {
		case <-e.done:
			if e.loc == nil && now.After(e.retryAt) {
				delete(c.entries, ip)
				removed++
			}
		default:
			// 在途查询不动
		}
	}
	return removed
}

// IsPrivate 判断地址是否不应发给公网地理位置服务：
// 回环、链路本地、内网网段、未指定地址、广播地址，
// 以及无法解析的输入（按内网处理，宁可少查）。
func IsPrivate(ip string) bool {
	// 兼容 IPv6 映射的 IPv4 形式 "::ffff:1.2.3.4"
	ip = strings.TrimPrefix(ip, "::ffff:")

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return true
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() || addr.IsPrivate() {
		return true
	}

	// IPv4 广播地址
	if addr.Is4() && addr == netip.AddrFrom4([4]byte{255, 255, 255, 255}) {
		return true
	}

	return false
}
