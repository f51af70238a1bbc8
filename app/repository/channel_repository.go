package repository

import (
	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// channelRepository implements the ChannelRepository interface
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new channel repository instance
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// GetActiveLive returns every exportable channel, ordered for playlists.
func (r *channelRepository) GetActiveLive() ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Where("is_active = ? AND is_live = ?", true, true).
		Order("sort_order asc, name asc").
		Find(&channels).Error
	return channels, err
}

// GetActiveLiveByPlan restricts the exportable catalog to the plan's grants.
// No grants means no channels; there is deliberately no fallback to the full
// catalog here.
func (r *channelRepository) GetActiveLiveByPlan(planID uint) ([]models.Channel, error) {
	allowed, err := r.GetAllowedChannelIDs(planID)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		return []models.Channel{}, nil
	}

	var channels []models.Channel
	err = r.db.Where("id IN ? AND is_active = ? AND is_live = ?", allowed, true, true).
		Order("sort_order asc, name asc").
		Find(&channels).Error
	return channels, err
}

// GetAllowedChannelIDs returns the plan's granted channel ids
func (r *channelRepository) GetAllowedChannelIDs(planID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ChannelAccess{}).
		Where("plan_id = ?", planID).
		Pluck("channel_id", &ids).Error
	return ids, err
}

// Count returns the total number of channels
func (r *channelRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Channel{}).Count(&count).Error
	return count, err
}
