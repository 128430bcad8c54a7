package model

import "time"

// Click 单次访问记录。由点击采集管道异步写入，写入后不再变更；
// 地理位置字段在 IP 为内网地址或外部查询失败时保持为 NULL。
type Click struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LinkID    uint      `gorm:"index;not null" json:"linkId"`
	ClickedAt time.Time `gorm:"index" json:"clickedAt"`

	IPAddress *string `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent *string `gorm:"size:512" json:"userAgent,omitempty"`
	Referer   *string `gorm:"size:2048" json:"referer,omitempty"`

	// 由 User-Agent 解析得到
	Browser    *string `gorm:"size:64" json:"browser,omitempty"`
	OS         *string `gorm:"size:64" json:"os,omitempty"`
	DeviceType *string `gorm:"size:32" json:"deviceType,omitempty"`

	// 由外部地理位置服务得到
	Country *string `gorm:"size:64" json:"country,omitempty"`
	Region  *string `gorm:"size:64" json:"region,omitempty"`
	City    *string `gorm:"size:64" json:"city,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
