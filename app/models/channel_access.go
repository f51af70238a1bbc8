package models

import "time"

// ChannelAccess grants one channel to one plan. The join over this table is
// the only authorization boundary for subscriber catalog visibility.
type ChannelAccess struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    uint      `gorm:"not null;index:ux_channel_accesses_plan_channel,unique,priority:1" json:"plan_id"`
	ChannelID uint      `gorm:"not null;index:ux_channel_accesses_plan_channel,unique,priority:2;index" json:"channel_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
