package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// epgRepository implements the EPGRepository interface
type epgRepository struct {
	db *gorm.DB
}

// NewEPGRepository creates a new EPG repository instance
func NewEPGRepository(db *gorm.DB) EPGRepository {
	return &epgRepository{db: db}
}

// GetEntriesForChannels returns entries intersecting the half-open window
// [windowStart, windowEnd), ordered by (channel_id, start_time). Strict
// inequalities: entries touching a boundary are not part of the window.
func (r *epgRepository) GetEntriesForChannels(channelIDs []uint, windowStart, windowEnd time.Time) ([]models.EPGEntry, error) {
	if len(channelIDs) == 0 {
		return []models.EPGEntry{}, nil
	}
	var entries []models.EPGEntry
	err := r.db.Where("channel_id IN ? AND start_time < ? AND end_time > ?",
		channelIDs, windowEnd, windowStart).
		Order("channel_id asc, start_time asc").
		Find(&entries).Error
	return entries, err
}
