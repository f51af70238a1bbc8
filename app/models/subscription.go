package models

import "time"

const (
	SUBSCRIPTION_STATUS_ACTIVE    = "active"
	SUBSCRIPTION_STATUS_CANCELLED = "cancelled"
	SUBSCRIPTION_STATUS_EXPIRED   = "expired"
	SUBSCRIPTION_STATUS_PENDING   = "pending"
)

// Subscription links a user to a plan for a billing period. Only rows with
// status active and end_date in the future entitle the user to exports.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_subscriptions_user_status,priority:1" json:"user_id"`
	PlanID    uint      `gorm:"not null;index" json:"plan_id"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_subscriptions_user_status,priority:2" json:"status"`
	StartDate time.Time `gorm:"type:timestamp;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:timestamp;not null" json:"end_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"-"`
}

// IsCurrent reports whether the subscription entitles exports at the given time.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SUBSCRIPTION_STATUS_ACTIVE && !s.EndDate.Before(now)
}
