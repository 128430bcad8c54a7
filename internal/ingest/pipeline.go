// Package ingest 实现点击采集管道：把一次访问事件在请求路径之外
// 充实（IP 选择、UA 归类、地理位置查询）并落库。
// 入队永远不阻塞：队列满时丢弃事件，重定向的可用性优先于统计的完整性。
package ingest

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkly-go/internal/geo"
	"linkly-go/internal/model"
	"linkly-go/internal/uaparse"
	"linkly-go/pkg/metrics"
)

// Event 一次访问的原始事件，由重定向处理器填充
type Event struct {
	LinkID    uint
	ClickedAt time.Time
	// IPCandidates 按优先级排列的候选客户端 IP：
	// X-Forwarded-For 首项、X-Real-IP、对端地址
	IPCandidates []string
	UserAgent    string
	Referer      string
}

type Pipeline struct {
	queue   chan Event
	db      *gorm.DB
	geo     *geo.Cache
	workers int
	done    chan struct{}
}

// Default 全局实例，serve 启动时初始化
var Default *Pipeline

func Init(db *gorm.DB, geoCache *geo.Cache) {
	workers := viper.GetInt("ingest.workers")
	if workers <= 0 {
		workers = 4
	}
	queueSize := viper.GetInt("ingest.queue_size")
	if queueSize <= 0 {
		queueSize = 1024
	}

	Default = NewPipeline(db, geoCache, workers, queueSize)
	Default.Start()
}

func NewPipeline(db *gorm.DB, geoCache *geo.Cache, workers, queueSize int) *Pipeline {
	return &Pipeline{
		queue:   make(chan Event, queueSize),
		db:      db,
		geo:     geoCache,
		workers: workers,
		done:    make(chan struct{}),
	}
}

func (p *Pipeline) Start() {
	for i := 0; i < p.workers; i++ {
		go p.worker()
	}
}

// Stop 关闭队列并等待 worker 把积压事件处理完
func (p *Pipeline) Stop() {
	close(p.queue)
	for i := 0; i < p.workers; i++ {
		<-p.done
	}
}

// Enqueue 投递事件。队列满时立即返回 false 并丢弃，绝不阻塞调用方。
func (p *Pipeline) Enqueue(ev Event) bool {
	select {
	case p.queue <- ev:
		return true
	default:
		metrics.ClicksDropped.WithLabelValues("queue_full").Inc()
		zap.L().Warn("Click queue is full, dropping event", zap.Uint("link_id", ev.LinkID))
		return false
	}
}

func (p *Pipeline) worker() {
	defer func() { p.done <- struct{}{} }()
	for ev := range p.queue {
		p.process(ev)
	}
}

// process 充实并持久化一条点击。任何失败只影响这一条记录：
// 地理位置查不到就写 NULL，落库失败记日志后丢弃。
func (p *Pipeline) process(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Panic while processing click", zap.Any("panic", r), zap.Uint("link_id", ev.LinkID))
		}
	}()

	ip := firstUsableIP(ev.IPCandidates)
	browser, osName, device := uaparse.Classify(ev.UserAgent)

	var loc *geo.Location
	if ip != "" {
		loc = p.geo.Lookup(context.Background(), ip)
		if loc != nil {
			metrics.GeoLookups.WithLabelValues("located").Inc()
		} else {
			metrics.GeoLookups.WithLabelValues("unavailable").Inc()
		}
	}

	click := model.Click{
		LinkID:     ev.LinkID,
		ClickedAt:  ev.ClickedAt,
		IPAddress:  optional(ip),
		UserAgent:  optional(ev.UserAgent),
		Referer:    optional(ev.Referer),
		Browser:    optional(browser),
		OS:         optional(osName),
		DeviceType: optional(device),
	}
	if loc != nil {
		click.Country = optional(loc.Country)
		click.Region = optional(loc.Region)
		click.City = optional(loc.City)
	}

	if err := p.db.Create(&click).Error; err != nil {
		metrics.ClicksDropped.WithLabelValues("db_error").Inc()
		zap.L().Warn("Failed to save click", zap.Uint("link_id", ev.LinkID), zap.Error(err))
		return
	}
	metrics.ClicksIngested.WithLabelValues().Inc()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
