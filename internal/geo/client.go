package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"time"
)

// fetchFunc 执行一次真正的外部查询，失败返回 nil
type fetchFunc func(ctx context.Context, ip string) *Location

// ipAPIResponse ip-api.com 的响应结构
type ipAPIResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

type client struct {
	endpoint string
	http     *http.Client
}

func newClient(endpoint string, timeout time.Duration) *client {
	return &client{
		endpoint: endpoint,
		// 硬超时：外部服务再慢也不能拖住采集 worker
		http: &http.Client{Timeout: timeout},
	}
}

func (c *client) fetch(ctx context.Context, ip string) *Location {
	url := fmt.Sprintf("%s/%s?fields=status,country,regionName,city", c.endpoint, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("geo lookup network error", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("geo lookup non-200 response", zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return nil
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		zap.L().Debug("geo lookup parse error", zap.String("ip", ip), zap.Error(err))
		return nil
	}

	if body.Status != "success" {
		zap.L().Debug("geo lookup returned non-success status", zap.String("ip", ip))
		return nil
	}

	// 三个字段全空视为查不到
	if body.Country == "" && body.RegionName == "" && body.City == "" {
		return nil
	}

	return &Location{
		Country: body.Country,
		Region:  body.RegionName,
		City:    body.City,
	}
}
