package repository

import (
	"time"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// DeviceRepository defines the interface for device lifecycle operations
type DeviceRepository interface {
	// Upsert registers or updates a device keyed by (user_id, mac_address).
	Upsert(device *models.Device) (*models.Device, error)
	GetByID(id uint) (*models.Device, error)
	GetByUserAndMac(userID uint, macAddress string) (*models.Device, error)
	// GetActiveByMac returns the first active device carrying the address,
	// for the MAC-keyed convenience endpoints.
	GetActiveByMac(macAddress string) (*models.Device, error)
	ListByUserID(userID uint) ([]models.Device, error)
	Update(device *models.Device) error
}

// PlaylistTokenRepository defines the interface for bearer token operations
type PlaylistTokenRepository interface {
	GetByDeviceID(deviceID uint) (*models.PlaylistToken, error)
	GetByToken(token string) (*models.PlaylistToken, error)
	Create(token *models.PlaylistToken) error
	// Rotate replaces the device's token value via an atomic upsert on the
	// device_id uniqueness constraint; exactly one row survives.
	Rotate(deviceID, userID uint, value string) (*models.PlaylistToken, error)
	// Touch updates the last-used timestamp. Best effort; callers swallow errors.
	Touch(id uint, usedAt time.Time) error
	// StampExpiry backfills an expiry onto a legacy token without one.
	StampExpiry(id uint, expiresAt time.Time) error
}

// SubscriptionRepository defines the interface for subscription lookups
type SubscriptionRepository interface {
	// GetCurrentByUserID returns the active subscription whose end date has
	// not passed, or gorm.ErrRecordNotFound.
	GetCurrentByUserID(userID uint, now time.Time) (*models.Subscription, error)
	Create(subscription *models.Subscription) error
	Update(subscription *models.Subscription) error
}

// ChannelRepository defines the interface for catalog visibility queries
type ChannelRepository interface {
	// GetActiveLive returns the full exportable catalog, ordered.
	GetActiveLive() ([]models.Channel, error)
	// GetActiveLiveByPlan returns the catalog restricted to the plan's
	// ChannelAccess grants. An empty grant set yields an empty list.
	GetActiveLiveByPlan(planID uint) ([]models.Channel, error)
	GetAllowedChannelIDs(planID uint) ([]uint, error)
	Count() (int64, error)
}

// EPGRepository defines the interface for programme data queries
type EPGRepository interface {
	// GetEntriesForChannels returns entries intersecting [windowStart, windowEnd)
	// for the given channels, ordered by (channel_id, start_time).
	GetEntriesForChannels(channelIDs []uint, windowStart, windowEnd time.Time) ([]models.EPGEntry, error)
}
