package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetCurrentByUserID returns the active subscription still inside its period.
// With overlapping rows the one ending last wins.
func (r *subscriptionRepository) GetCurrentByUserID(userID uint, now time.Time) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.Where("user_id = ? AND status = ? AND end_date >= ?",
		userID, models.SUBSCRIPTION_STATUS_ACTIVE, now).
		Order("end_date desc").
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// Create creates a new subscription
func (r *subscriptionRepository) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

// Update updates an existing subscription
func (r *subscriptionRepository) Update(subscription *models.Subscription) error {
	return r.db.Save(subscription).Error
}
