package models

import "time"

// EPGEntry is one programme row for a channel, populated by the external
// ingestion pipeline.
type EPGEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChannelID   uint      `gorm:"not null;index:idx_epg_entries_channel_start,priority:1" json:"channel_id"`
	StartTime   time.Time `gorm:"type:timestamp;not null;index:idx_epg_entries_channel_start,priority:2" json:"start_time"`
	EndTime     time.Time `gorm:"type:timestamp;not null;index" json:"end_time"`
	Title       string    `gorm:"type:varchar(500);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	ImageURL    string    `gorm:"type:varchar(2048)" json:"image_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
