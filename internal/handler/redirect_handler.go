package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"linkly-go/internal/ingest"
	"linkly-go/internal/service"
	"linkly-go/pkg/metrics"
)

// RedirectHandler 短码重定向，整条路径只读内存缓存。
// 命中后把点击事件异步投递给采集管道再返回 302；
// 未命中（包括停用的短码）统一返回无信息量的 404。
func RedirectHandler(c *gin.Context) {
	shortCode := c.Param("code")

	entry, ok := service.Resolve(shortCode)
	if !ok {
		metrics.RedirectMisses.WithLabelValues().Inc()
		c.Status(http.StatusNotFound)
		return
	}
	metrics.RedirectHits.WithLabelValues().Inc()

	ingest.Default.Enqueue(ingest.Event{
		LinkID:       entry.LinkID,
		ClickedAt:    time.Now(),
		IPCandidates: ipCandidates(c),
		UserAgent:    c.Request.UserAgent(),
		Referer:      c.Request.Referer(),
	})

	// 短链目标可能变更，禁止客户端缓存重定向结果
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, entry.TargetURL)
}

// ipCandidates 按可信度递减收集候选客户端 IP：
// X-Forwarded-For 首项、X-Real-IP、对端地址。实际取舍在采集管道里做。
func ipCandidates(c *gin.Context) []string {
	candidates := make([]string, 0, 3)

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		candidates = append(candidates, strings.TrimSpace(first))
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		candidates = append(candidates, realIP)
	}
	candidates = append(candidates, c.RemoteIP())

	return candidates
}
