package cache

import (
	"sync"
	"sync/atomic"
)

// Entry 缓存中的链接视图，重定向只需要这两个字段
type Entry struct {
	LinkID    uint
	TargetURL string
}

// LinkCache 短码 -> Entry 的进程内缓存，是重定向判定的唯一数据源。
// 只有处于启用状态的链接会进入缓存；每次对持久层的变更都必须在
// 同一个业务操作里同步修补缓存，保证读者看不到不一致的窗口。
//
// 读多写少：底层 sync.Map 保证并发读不互相阻塞；Warm 通过原子
// 指针交换整体替换视图，启动与定时重建都不会阻塞在线读取。
type LinkCache struct {
	m atomic.Pointer[sync.Map]
}

// Links 全局实例，serve 启动时初始化
var Links *LinkCache

func InitLinkCache() {
	Links = NewLinkCache()
}

func NewLinkCache() *LinkCache {
	c := &LinkCache{}
	c.m.Store(&sync.Map{})
	return c
}

// Get 查询短码。纯内存操作，绝不触达持久层。
func (c *LinkCache) Get(shortCode string) (Entry, bool) {
	val, ok := c.m.Load().Load(shortCode)
	if !ok {
		return Entry{}, false
	}
	return val.(Entry), true
}

// Put 插入或覆盖一个条目（创建、编辑、重新启用时调用）
func (c *LinkCache) Put(shortCode string, entry Entry) {
	c.m.Load().Store(shortCode, entry)
}

// Remove 删除一个条目（停用或删除链接时调用）
func (c *LinkCache) Remove(shortCode string) {
	c.m.Load().Delete(shortCode)
}

// Warm 用全量数据一次性替换整个缓存视图。
// 新视图构建完成后做一次指针交换，并发读者要么看到旧的完整
// 视图，要么看到新的完整视图，不会看到半成品。
func (c *LinkCache) Warm(entries map[string]Entry) {
	fresh := &sync.Map{}
	for code, entry := range entries {
		fresh.Store(code, entry)
	}
	c.m.Store(fresh)
}

// Len 当前条目数（仅用于日志与测试）
func (c *LinkCache) Len() int {
	n := 0
	c.m.Load().Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
