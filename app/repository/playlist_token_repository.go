package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// playlistTokenRepository implements the PlaylistTokenRepository interface
type playlistTokenRepository struct {
	db *gorm.DB
}

// NewPlaylistTokenRepository creates a new playlist token repository instance
func NewPlaylistTokenRepository(db *gorm.DB) PlaylistTokenRepository {
	return &playlistTokenRepository{db: db}
}

// GetByDeviceID retrieves the token row for a device
func (r *playlistTokenRepository) GetByDeviceID(deviceID uint) (*models.PlaylistToken, error) {
	var token models.PlaylistToken
	err := r.db.Where("device_id = ?", deviceID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByToken retrieves a token row by its opaque value
func (r *playlistTokenRepository) GetByToken(token string) (*models.PlaylistToken, error) {
	var row models.PlaylistToken
	err := r.db.Where("token = ?", token).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create creates a new token row
func (r *playlistTokenRepository) Create(token *models.PlaylistToken) error {
	return r.db.Create(token).Error
}

// Rotate overwrites the device's token value via an upsert on the device_id
// uniqueness constraint. Concurrent rotations serialize at the database; the
// last writer's value is the one that authorizes from then on. Last-used
// tracking and export counters start over with the new value.
func (r *playlistTokenRepository) Rotate(deviceID, userID uint, value string) (*models.PlaylistToken, error) {
	row := models.PlaylistToken{
		DeviceID: deviceID,
		UserID:   userID,
		Token:    value,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":                 value,
			"user_id":               userID,
			"expires_at":            nil,
			"last_used_at":          nil,
			"playlist_export_count": 0,
			"epg_export_count":      0,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByDeviceID(deviceID)
}

// Touch updates the last-used timestamp only
func (r *playlistTokenRepository) Touch(id uint, usedAt time.Time) error {
	return r.db.Model(&models.PlaylistToken{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}

// StampExpiry backfills an expiry on a token that predates the expiry policy.
// Only null expiries are stamped so the policy activation is one-time.
func (r *playlistTokenRepository) StampExpiry(id uint, expiresAt time.Time) error {
	return r.db.Model(&models.PlaylistToken{}).
		Where("id = ? AND expires_at IS NULL", id).
		Update("expires_at", expiresAt).Error
}
