package models

import "time"

// Channel is one catalog entry populated by the external ingestion pipeline.
// EpgID ties the channel to its programme data in external XMLTV sources; when
// empty the internal ID is used in rendered documents instead.
type Channel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(191);not null;index" json:"name"`
	StreamURL string    `gorm:"type:varchar(2048)" json:"stream_url"`
	LogoURL   string    `gorm:"type:varchar(2048)" json:"logo_url"`
	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	Country   string    `gorm:"type:varchar(100)" json:"country"`
	Language  string    `gorm:"type:varchar(100)" json:"language"`
	EpgID     string    `gorm:"type:varchar(191);index" json:"epg_id"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	IsLive    bool      `gorm:"not null;default:true" json:"is_live"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
