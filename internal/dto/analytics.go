package dto

import "linkly-go/internal/model"

// FieldStat 单个维度值的点击占比
type FieldStat struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// LinkAnalytics 单条链接的访问分析。
// RecentClicks 与各维度分布都基于最近的点击窗口，累计值另给。
type LinkAnalytics struct {
	Link         model.Link    `json:"link"`
	TotalClicks  int64         `json:"totalClicks"`
	UniqueIPs    int64         `json:"uniqueIps"`
	RecentClicks []model.Click `json:"recentClicks"`

	TopBrowsers  []FieldStat `json:"topBrowsers"`
	TopOS        []FieldStat `json:"topOs"`
	TopDevices   []FieldStat `json:"topDevices"`
	TopReferers  []FieldStat `json:"topReferers"`
	TopCountries []FieldStat `json:"topCountries"`
}
