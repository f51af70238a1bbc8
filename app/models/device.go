package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DEVICE_STATUS_PENDING = "pending"
	DEVICE_STATUS_ACTIVE  = "active"
	DEVICE_STATUS_REVOKED = "revoked"
)

// Device is an IPTV client bound to a user by its hardware address. The
// (user_id, mac_address) pair is unique; MacAddress is always stored in
// canonical AA:BB:CC:DD:EE:FF form.
type Device struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID     uint           `gorm:"not null;index:ux_devices_user_mac,unique,priority:1" json:"user_id"`
	MacAddress string         `gorm:"type:varchar(17);not null;index:ux_devices_user_mac,unique,priority:2;index" json:"mac_address" validate:"required,len=17"`
	Name       string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Status     string         `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"oneof=pending active revoked"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (d *Device) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// BeforeCreate assigns the public identifier.
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == "" {
		d.UUID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the device may authorize export requests.
func (d *Device) IsActive() bool {
	return d.Status == DEVICE_STATUS_ACTIVE
}
