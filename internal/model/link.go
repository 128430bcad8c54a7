package model

// Link 短链接实体。Active 为 false 时链接保留历史点击数据，
// 但对外表现为不存在（与未知短码不可区分）。
type Link struct {
	BaseModel
	ShortCode   string  `gorm:"uniqueIndex;size:32;not null" json:"shortCode"`
	TargetURL   string  `gorm:"size:2048;not null" json:"targetUrl"`
	Title       *string `gorm:"size:255" json:"title,omitempty"`
	Description *string `gorm:"size:1024" json:"description,omitempty"`
	Active      bool    `gorm:"index;default:true" json:"active"`

	// 删除链接时级联删除其点击记录
	Clicks []Click `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
