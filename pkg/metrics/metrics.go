// Package metrics 集中定义服务的 prometheus 指标。
// 使用独立的 Registry，避免与依赖库注册到默认 Registry 的指标混在一起。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// HTTPRequests 按方法/路径/状态码统计请求量
	HTTPRequests = registerCounter("http_requests_total", "HTTP requests processed", []string{"method", "path", "status"})

	// RedirectHits / RedirectMisses 重定向缓存命中情况
	RedirectHits   = registerCounter("redirect_hits_total", "Redirects served from the link cache", nil)
	RedirectMisses = registerCounter("redirect_misses_total", "Redirect requests for unknown or inactive codes", nil)

	// ClicksIngested / ClicksDropped 点击采集管道的吞吐与丢弃
	ClicksIngested = registerCounter("clicks_ingested_total", "Click events persisted", nil)
	ClicksDropped  = registerCounter("clicks_dropped_total", "Click events dropped", []string{"reason"})

	// GeoLookups 外部地理位置查询结果分布
	GeoLookups = registerCounter("geo_lookups_total", "External geolocation lookups", []string{"outcome"})
)

func registerCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	registry.MustRegister(counter)
	return counter
}

// Handler 暴露 /metrics 端点
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
