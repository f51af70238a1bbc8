package models

import (
	"time"
)

// PlaylistToken is the opaque bearer credential for the export endpoints.
// Exactly one row exists per device (unique device_id); rotation overwrites
// the value in place so the previous token stops authorizing immediately.
type PlaylistToken struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	DeviceID            uint       `gorm:"not null;uniqueIndex" json:"device_id"`
	UserID              uint       `gorm:"not null;index" json:"user_id"`
	Token               string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	ExpiresAt           *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	LastUsedAt          *time.Time `gorm:"type:timestamp;default:null" json:"last_used_at,omitempty"`
	PlaylistExportCount int64      `gorm:"not null;default:0" json:"playlist_export_count"`
	EPGExportCount      int64      `gorm:"not null;default:0" json:"epg_export_count"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Device *Device `gorm:"foreignKey:DeviceID" json:"-"`
}

// IsExpired reports whether the token has an expiry in the past. A nil
// ExpiresAt never expires (legacy rows before the expiry policy existed).
func (t *PlaylistToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}
