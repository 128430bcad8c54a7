package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/dto"
	"linkly-go/internal/model"
	"linkly-go/internal/repository"
	"linkly-go/pkg/logging"
)

const (
	// 分析窗口：最近 N 条点击，明细与维度分布都基于这个窗口
	analyticsWindow = 500
	topStatsLimit   = 10
)

// GetLinkAnalytics 查询单条链接的访问分析。
// 停用中的链接对管理端仍然可见，只有重定向端对其装作不存在。
func GetLinkAnalytics(ctx context.Context, id uint) (*dto.LinkAnalytics, error) {
	var link model.Link
	if err := repository.DB.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("error.link_not_found")
		}
		logging.Logger.Error("Failed to query link", zap.Uint("id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	var total int64
	if err := repository.DB.Model(&model.Click{}).
		Where("link_id = ?", id).
		Count(&total).Error; err != nil {
		logging.Logger.Error("Failed to count clicks", zap.Uint("link_id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	var uniqueIPs int64
	if err := repository.DB.Model(&model.Click{}).
		Where("link_id = ? AND ip_address IS NOT NULL", id).
		Distinct("ip_address").
		Count(&uniqueIPs).Error; err != nil {
		logging.Logger.Error("Failed to count unique ips", zap.Uint("link_id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	var clicks []model.Click
	if err := repository.DB.
		Where("link_id = ?", id).
		Order("clicked_at DESC").
		Limit(analyticsWindow).
		Find(&clicks).Error; err != nil {
		logging.Logger.Error("Failed to query clicks", zap.Uint("link_id", id), zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	return &dto.LinkAnalytics{
		Link:         link,
		TotalClicks:  total,
		UniqueIPs:    uniqueIPs,
		RecentClicks: clicks,
		TopBrowsers:  topStats(clicks, func(c model.Click) *string { return c.Browser }),
		TopOS:        topStats(clicks, func(c model.Click) *string { return c.OS }),
		TopDevices:   topStats(clicks, func(c model.Click) *string { return c.DeviceType }),
		TopReferers:  topStats(clicks, func(c model.Click) *string { return c.Referer }),
		TopCountries: topStats(clicks, func(c model.Click) *string { return c.Country }),
	}, nil
}

// topStats 在点击窗口内按某个维度聚合，取出现次数前 N 的值。
// 占比分母是窗口内该维度非空的点击数，NULL 不计入。
func topStats(clicks []model.Click, field func(model.Click) *string) []dto.FieldStat {
	counts := make(map[string]int64)
	var known int64
	for _, c := range clicks {
		v := field(c)
		if v == nil || *v == "" {
			continue
		}
		counts[*v]++
		known++
	}

	stats := make([]dto.FieldStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, dto.FieldStat{
			Name:    name,
			Count:   count,
			Percent: math.Round(float64(count)/float64(known)*1000) / 10,
		})
	}

	// 次数相同按名称排序，保证结果稳定
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})

	if len(stats) > topStatsLimit {
		stats = stats[:topStatsLimit]
	}
	return stats
}
